// Package generator orchestrates the external toolkit into producing the
// static PKI fixture set: a CA hierarchy, end-entity certificates and CRLs.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lamassuiot/pkix-fixtures/pkg/config"
	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
	chelpers "github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
	"github.com/lamassuiot/pkix-fixtures/pkg/openssl"
)

var fixturesValidate *validator.Validate

type FixtureGenerator struct {
	logger     *logrus.Entry
	conf       config.GeneratorConfig
	runner     *openssl.Runner
	outputDir  string
	scratchDir string
}

type FixtureGeneratorBuilder struct {
	Logger *logrus.Entry
	Config config.GeneratorConfig
	Runner *openssl.Runner
}

func NewFixtureGenerator(builder FixtureGeneratorBuilder) (*FixtureGenerator, error) {
	fixturesValidate = validator.New()

	outputDir := builder.Config.OutputDir
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not resolve output directory: %w", err)
		}
		outputDir = cwd
	}

	// CSRs are transient: each run gets its own scratch subdirectory and
	// leaves it behind, like any other temp file.
	scratchDir := filepath.Join(builder.Config.ScratchDir, "pkix-csr-"+uuid.NewString())
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create scratch directory %s: %w", scratchDir, err)
	}

	return &FixtureGenerator{
		logger:     builder.Logger,
		conf:       builder.Config,
		runner:     builder.Runner,
		outputDir:  outputDir,
		scratchDir: scratchDir,
	}, nil
}

type RunInput struct {
	Set models.FixtureSet `validate:"required"`
}

// Run executes one full generation pass: CA forest first, then end entities,
// then the ordered revocation/CRL sequence. Each stage depends on artifacts
// of the previous one, so the first failing step aborts the run.
func (svc *FixtureGenerator) Run(ctx context.Context, input RunInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	for _, ca := range input.Set.CAs {
		if err := svc.InitCA(ctx, InitCAInput{CA: ca}); err != nil {
			return err
		}
	}

	for _, ee := range input.Set.EndEntities {
		if err := svc.IssueEndEntity(ctx, IssueEndEntityInput{EndEntity: ee}); err != nil {
			return err
		}
	}

	for _, step := range input.Set.Steps {
		switch step.Type {
		case models.StepRevoke:
			err := svc.RevokeCertificate(ctx, RevokeCertificateInput{
				CA:          step.Revoke.CA,
				Certificate: step.Revoke.Certificate,
			})
			if err != nil {
				return err
			}
		case models.StepGenerateCRL:
			err := svc.GenerateCRL(ctx, GenerateCRLInput{
				CA:         step.CRL.CA,
				Output:     step.CRL.Output,
				Validity:   step.CRL.Validity,
				Extensions: step.CRL.Extensions,
			})
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown fixture step type '%s'", step.Type)
		}
	}

	lFunc.Infof("fixture generation finished. artifacts in %s", svc.outputDir)
	return nil
}

// OutputDir is where the generated artifacts land.
func (svc *FixtureGenerator) OutputDir() string {
	return svc.outputDir
}

func (svc *FixtureGenerator) caDir(name string) string {
	return filepath.Join(svc.conf.WorkingBase, name)
}

func (svc *FixtureGenerator) outputPath(name string) string {
	return filepath.Join(svc.outputDir, name)
}
