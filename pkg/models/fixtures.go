package models

// CertAuthority is one node of the CA hierarchy. Name doubles as the CA's
// working directory name and as its certificate Common Name, so it must be
// unique across the whole forest.
type CertAuthority struct {
	Name         string          `mapstructure:"name" validate:"required"`
	Subordinates []CertAuthority `mapstructure:"subordinates"`
}

// EndEntity describes one leaf certificate request.
type EndEntity struct {
	Name           string   `mapstructure:"name" validate:"required"`
	Subject        string   `mapstructure:"subject" validate:"required"`
	SubjectAltName string   `mapstructure:"subject_alt_name" validate:"required"`
	Issuer         string   `mapstructure:"issuer" validate:"required"`
	Validity       Validity `mapstructure:"validity"`
}

type FixtureStepType string

var (
	StepRevoke      FixtureStepType = "Revoke"
	StepGenerateCRL FixtureStepType = "GenerateCRL"
)

// FixtureStep is one entry of the ordered post-issuance sequence. Revocations
// and CRL generations interleave, so both live in a single list.
type FixtureStep struct {
	Type   FixtureStepType    `mapstructure:"type"`
	Revoke *RevocationRequest `mapstructure:"revoke"`
	CRL    *CRLRequest        `mapstructure:"crl"`
}

// RevocationRequest marks an already issued certificate as revoked in the
// issuing CA's database.
type RevocationRequest struct {
	CA          string `mapstructure:"ca" validate:"required"`
	Certificate string `mapstructure:"certificate" validate:"required"` // file name in the output directory
}

// CRLRequest produces one revocation list. An empty Extensions profile yields
// a version-1 CRL; naming a profile yields a version-2 CRL carrying its
// extensions.
type CRLRequest struct {
	CA         string      `mapstructure:"ca" validate:"required"`
	Output     string      `mapstructure:"output" validate:"required"` // file name in the output directory
	Validity   CRLValidity `mapstructure:"validity"`
	Extensions string      `mapstructure:"extensions"`
}

// FixtureSet is the full declarative description of one generation run.
type FixtureSet struct {
	CAs         []CertAuthority `mapstructure:"cas"`
	EndEntities []EndEntity     `mapstructure:"end_entities"`
	Steps       []FixtureStep   `mapstructure:"steps"`
}

// WalkCAs visits every CA of the forest depth first, root to leaf, calling fn
// with the node and its parent name (empty for roots).
func (s FixtureSet) WalkCAs(fn func(ca CertAuthority, parent string)) {
	var walk func(ca CertAuthority, parent string)
	walk = func(ca CertAuthority, parent string) {
		fn(ca, parent)
		for _, sub := range ca.Subordinates {
			walk(sub, ca.Name)
		}
	}
	for _, root := range s.CAs {
		walk(root, "")
	}
}
