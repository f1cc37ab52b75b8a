package corsika

// Rest masses in GeV.
const (
	electronMass = 0.51099895e-3
	muonMass     = 0.1056583755
	pi0Mass      = 0.1349768
	piMass       = 0.13957039
	k0Mass       = 0.497611
	kMass        = 0.493677
	neutronMass  = 0.93956542
	protonMass   = 0.93827209
	etaMass      = 0.547862
	lambdaMass   = 1.115683
	amu          = 0.93149410
)

// Particle codes with a special meaning in particle sub-blocks.
const (
	codeCherenkovBunch = 9900
)

type species struct {
	pdg  int
	mass float64
}

var speciesByCode = map[int]species{
	1:  {22, 0},
	2:  {-11, electronMass},
	3:  {11, electronMass},
	5:  {-13, muonMass},
	6:  {13, muonMass},
	7:  {111, pi0Mass},
	8:  {211, piMass},
	9:  {-211, piMass},
	10: {130, k0Mass},
	11: {321, kMass},
	12: {-321, kMass},
	13: {2112, neutronMass},
	14: {2212, protonMass},
	15: {-2212, protonMass},
	16: {310, k0Mass},
	17: {221, etaMass},
	18: {3122, lambdaMass},
	25: {-2112, neutronMass},
	26: {-3122, lambdaMass},
	66: {12, 0},
	67: {-12, 0},
	68: {14, 0},
	69: {-14, 0},
}

// PDG converts a CORSIKA particle code to its PDG code. Nuclei (code
// A*100+Z) map to 100ZZZAAA0. Unknown codes yield 0.
func PDG(code int) int {
	if s, ok := speciesByCode[code]; ok {
		return s.pdg
	}
	if a, z, ok := nucleus(code); ok {
		return 1000000000 + z*10000 + a*10
	}
	return 0
}

// Mass returns the rest mass in GeV of the species with the given CORSIKA
// code. Nuclei are approximated by A atomic mass units.
func Mass(code int) float64 {
	if s, ok := speciesByCode[code]; ok {
		return s.mass
	}
	if a, _, ok := nucleus(code); ok {
		return float64(a) * amu
	}
	return 0
}

func nucleus(code int) (a, z int, ok bool) {
	if code < 200 || code >= 6000 {
		return 0, 0, false
	}
	a, z = code/100, code%100
	if z < 1 || z > a {
		return 0, 0, false
	}
	return a, z, true
}

// skipped reports whether records with this code carry no particle: photon
// bunches and the muon production-history records.
func skipped(code int) bool {
	switch code {
	case 0, codeCherenkovBunch, 75, 76, 85, 86, 95, 96:
		return true
	}
	return false
}
