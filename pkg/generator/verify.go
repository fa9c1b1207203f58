package generator

import (
	"context"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
	chelpers "github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
)

type VerifyInput struct {
	Set models.FixtureSet `validate:"required"`
}

// Verify re-reads the artifacts of a finished run and checks their logical
// structure: subject and issuer chains for every CA and end entity, and
// entry counts, serials and versions for every generated CRL. It parses
// only; no signature is computed or checked here.
func (svc *FixtureGenerator) Verify(ctx context.Context, input VerifyInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	if err := svc.verifyCAs(input.Set); err != nil {
		return err
	}
	if err := svc.verifyEndEntities(input.Set); err != nil {
		return err
	}
	if err := svc.verifySteps(input.Set); err != nil {
		return err
	}

	lFunc.Infof("verified fixture set in %s", svc.outputDir)
	return nil
}

func (svc *FixtureGenerator) verifyCAs(set models.FixtureSet) error {
	var firstErr error

	set.WalkCAs(func(ca models.CertAuthority, parent string) {
		if firstErr != nil {
			return
		}

		cert, err := chelpers.ReadCertificateFromFile(svc.outputPath(ca.Name + ".crt"))
		if err != nil {
			firstErr = fmt.Errorf("CA %s: %w", ca.Name, err)
			return
		}

		if _, err := chelpers.ReadPrivateKeyFromFile(svc.outputPath(ca.Name + ".key")); err != nil {
			firstErr = fmt.Errorf("CA %s key: %w", ca.Name, err)
			return
		}

		if cert.Subject.CommonName != ca.Name {
			firstErr = fmt.Errorf("CA %s: subject CN is '%s'", ca.Name, cert.Subject.CommonName)
			return
		}

		expectedIssuer := ca.Name
		if parent != "" {
			expectedIssuer = parent
		}
		if cert.Issuer.CommonName != expectedIssuer {
			firstErr = fmt.Errorf("CA %s: issuer CN is '%s', expected '%s'", ca.Name, cert.Issuer.CommonName, expectedIssuer)
		}
	})

	return firstErr
}

func (svc *FixtureGenerator) verifyEndEntities(set models.FixtureSet) error {
	for _, ee := range set.EndEntities {
		cert, err := chelpers.ReadCertificateFromFile(svc.outputPath(ee.Name + ".crt"))
		if err != nil {
			return fmt.Errorf("end entity %s: %w", ee.Name, err)
		}

		if _, err := chelpers.ReadPrivateKeyFromFile(svc.outputPath(ee.Name + ".key")); err != nil {
			return fmt.Errorf("end entity %s key: %w", ee.Name, err)
		}

		expectedCN := strings.TrimPrefix(ee.Subject, "/CN=")
		if cert.Subject.CommonName != expectedCN {
			return fmt.Errorf("end entity %s: subject CN is '%s', expected '%s'", ee.Name, cert.Subject.CommonName, expectedCN)
		}

		if cert.Issuer.CommonName != ee.Issuer {
			return fmt.Errorf("end entity %s: issuer CN is '%s', expected '%s'", ee.Name, cert.Issuer.CommonName, ee.Issuer)
		}

		// Explicit windows reach the toolkit with second precision, so the
		// issued certificate must carry exactly the declared bounds.
		if ee.Validity.Type == models.Time {
			wantNotBefore := ee.Validity.NotBefore.Truncate(time.Second)
			wantNotAfter := ee.Validity.NotAfter.Truncate(time.Second)
			if !cert.NotBefore.Equal(wantNotBefore) || !cert.NotAfter.Equal(wantNotAfter) {
				return fmt.Errorf("end entity %s: validity window %s to %s, expected %s to %s",
					ee.Name, cert.NotBefore, cert.NotAfter, wantNotBefore, wantNotAfter)
			}
		}
	}

	return nil
}

// verifySteps replays the revocation/CRL sequence, tracking which serials
// each CRL must contain at that point of the run.
func (svc *FixtureGenerator) verifySteps(set models.FixtureSet) error {
	revoked := map[string][]*big.Int{}

	for _, step := range set.Steps {
		switch step.Type {
		case models.StepRevoke:
			cert, err := chelpers.ReadCertificateFromFile(svc.outputPath(step.Revoke.Certificate))
			if err != nil {
				return fmt.Errorf("revoked certificate %s: %w", step.Revoke.Certificate, err)
			}
			revoked[step.Revoke.CA] = append(revoked[step.Revoke.CA], cert.SerialNumber)

		case models.StepGenerateCRL:
			if err := svc.verifyCRL(*step.CRL, revoked[step.CRL.CA]); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown fixture step type '%s'", step.Type)
		}
	}

	return nil
}

func (svc *FixtureGenerator) verifyCRL(req models.CRLRequest, expectedSerials []*big.Int) error {
	path := svc.outputPath(req.Output)

	crl, err := chelpers.ReadCRLFromFile(path)
	if err != nil {
		return fmt.Errorf("CRL %s: %w", req.Output, err)
	}

	if crl.Issuer.CommonName != req.CA {
		return fmt.Errorf("CRL %s: issuer CN is '%s', expected '%s'", req.Output, crl.Issuer.CommonName, req.CA)
	}

	if len(crl.RevokedCertificateEntries) != len(expectedSerials) {
		return fmt.Errorf("CRL %s: %d revoked entries, expected %d", req.Output, len(crl.RevokedCertificateEntries), len(expectedSerials))
	}

	for _, serial := range expectedSerials {
		found := false
		for _, entry := range crl.RevokedCertificateEntries {
			if entry.SerialNumber.Cmp(serial) == 0 {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("CRL %s: serial %s not listed", req.Output, serial)
		}
	}

	version, err := crlVersionFromFile(path)
	if err != nil {
		return fmt.Errorf("CRL %s: %w", req.Output, err)
	}

	expectedVersion := 1
	if req.Extensions != "" {
		expectedVersion = 2
	}
	if version != expectedVersion {
		return fmt.Errorf("CRL %s: version %d, expected %d", req.Output, version, expectedVersion)
	}

	return nil
}

func crlVersionFromFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	der := raw
	if block, _ := pem.Decode(raw); block != nil {
		der = block.Bytes
	}

	return crlVersion(der)
}

// crlVersion reads the optional version field of the TBSCertList directly,
// since x509.RevocationList does not expose it. An absent field means a
// version-1 CRL.
func crlVersion(der []byte) (int, error) {
	var list struct {
		TBSCertList        asn1.RawValue
		SignatureAlgorithm asn1.RawValue
		SignatureValue     asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &list); err != nil {
		return 0, err
	}

	var first asn1.RawValue
	if _, err := asn1.Unmarshal(list.TBSCertList.Bytes, &first); err != nil {
		return 0, err
	}

	if first.Class == asn1.ClassUniversal && first.Tag == asn1.TagInteger {
		var version int
		if _, err := asn1.Unmarshal(list.TBSCertList.Bytes, &version); err != nil {
			return 0, err
		}
		return version + 1, nil
	}

	return 1, nil
}
