package generator

import (
	"context"
	"strconv"

	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
	chelpers "github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
	"github.com/lamassuiot/pkix-fixtures/pkg/openssl"
)

type RevokeCertificateInput struct {
	CA          string `validate:"required"`
	Certificate string `validate:"required"` // file name in the output directory
}

// RevokeCertificate marks a previously issued certificate as revoked in the
// CA's database. The certificate itself is left in place; only subsequent
// CRLs reflect the revocation.
func (svc *FixtureGenerator) RevokeCertificate(ctx context.Context, input RevokeCertificateInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	lFunc.Infof("revoking %s in CA %s", input.Certificate, input.CA)

	return svc.runner.Run(ctx,
		map[string]string{openssl.EnvCAHome: svc.caDir(input.CA)},
		"ca", "-revoke", svc.outputPath(input.Certificate))
}

type GenerateCRLInput struct {
	CA       string `validate:"required"`
	Output   string `validate:"required"` // file name in the output directory
	Validity models.CRLValidity

	// Extensions selects the CRL extension profile. Empty produces a
	// version-1 CRL, a profile name produces a version-2 CRL.
	Extensions string
}

// GenerateCRL writes the CA's current revocation list to the output
// directory.
func (svc *FixtureGenerator) GenerateCRL(ctx context.Context, input GenerateCRLInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	if err := input.Validity.Validate(); err != nil {
		lFunc.Errorf("CRL request %s carries an invalid validity setting: %s", input.Output, err)
		return err
	}

	lFunc.Infof("generating CRL %s for CA %s", input.Output, input.CA)

	args := []string{
		"ca", "-gencrl",
		"-out", svc.outputPath(input.Output),
		"-md", svc.conf.Toolkit.Digest,
	}

	switch input.Validity.Type {
	case models.CRLDays:
		args = append(args, "-crldays", strconv.Itoa(input.Validity.Days))
	case models.CRLHours:
		args = append(args, "-crlhours", strconv.Itoa(input.Validity.Hours))
	}

	if input.Extensions != "" {
		args = append(args, "-crlexts", input.Extensions)
	}

	return svc.runner.Run(ctx,
		map[string]string{openssl.EnvCAHome: svc.caDir(input.CA)},
		args...)
}
