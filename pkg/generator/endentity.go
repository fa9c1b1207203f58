package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
	chelpers "github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
	"github.com/lamassuiot/pkix-fixtures/pkg/openssl"
)

type IssueEndEntityInput struct {
	EndEntity models.EndEntity `validate:"required"`
}

// IssueEndEntity generates a fresh key, builds a CSR carrying the request's
// SubjectAltName and submits it to the issuing CA. Key and certificate land
// in the output directory; the CSR is transient scratch.
func (svc *FixtureGenerator) IssueEndEntity(ctx context.Context, input IssueEndEntityInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	ee := input.EndEntity
	if err := ee.Validity.Validate(); err != nil {
		lFunc.Errorf("end entity %s carries an invalid validity setting: %s", ee.Name, err)
		return err
	}

	issuerDir := svc.caDir(ee.Issuer)
	if _, err := os.Stat(issuerDir); err != nil {
		lFunc.Errorf("issuer CA %s has no working directory: %s", ee.Issuer, err)
		return errs.ErrUnknownIssuerCA
	}

	lFunc.Infof("issuing end entity %s signed by %s", ee.Name, ee.Issuer)

	keyPath := svc.outputPath(ee.Name + ".key")
	csrPath := filepath.Join(svc.scratchDir, ee.Name+".csr")
	certPath := svc.outputPath(ee.Name + ".crt")

	if err := svc.generateKey(ctx, keyPath); err != nil {
		return err
	}

	// The SAN string reaches the request-extension section of the toolkit
	// config through the child environment of this one call.
	sanEnv := map[string]string{openssl.EnvSubjectAltName: ee.SubjectAltName}
	if err := svc.generateCSR(ctx, keyPath, csrPath, ee.Subject, svc.conf.Profiles.AltNameReq, sanEnv); err != nil {
		return err
	}

	return svc.signCSR(ctx, csrPath, certPath, issuerDir, svc.conf.Profiles.EndEntityExts, ee.Validity)
}
