package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
	chelpers "github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
	"github.com/lamassuiot/pkix-fixtures/pkg/openssl"
)

type InitCAInput struct {
	CA models.CertAuthority `validate:"required"`

	// Parent is empty for roots. Non-roots are chain-signed from the
	// parent's working directory, which must already be initialized.
	Parent string
}

// InitCA materializes one CA working directory, its key and its certificate,
// then recurses into subordinates. The working directory is wiped first, so
// repeated runs never see stale index or serial state.
func (svc *FixtureGenerator) InitCA(ctx context.Context, input InitCAInput) error {
	lFunc := chelpers.ConfigureLogger(ctx, svc.logger)

	err := fixturesValidate.Struct(input)
	if err != nil {
		lFunc.Errorf("struct validation error: %s", err)
		return errs.ErrValidateBadRequest
	}

	caDir := svc.caDir(input.CA.Name)
	lFunc.Infof("initializing CA %s in %s", input.CA.Name, caDir)

	if err := resetCADir(caDir); err != nil {
		lFunc.Errorf("could not reset working directory for CA %s: %s", input.CA.Name, err)
		return fmt.Errorf("%w: %s: %v", errs.ErrCADirReset, caDir, err)
	}

	keyPath := filepath.Join(caDir, "ca.key")
	csrPath := filepath.Join(caDir, "ca.csr")
	certPath := filepath.Join(caDir, "ca.crt")
	subject := "/CN=" + input.CA.Name

	if err := svc.generateKey(ctx, keyPath); err != nil {
		return err
	}

	if input.Parent == "" {
		// Roots self-sign in one shot.
		err = svc.runner.Run(ctx, nil,
			"req", "-new", "-x509",
			"-key", keyPath,
			"-out", certPath,
			"-days", strconv.Itoa(svc.conf.Toolkit.CertDays),
			"-subj", subject,
			"-"+svc.conf.Toolkit.Digest,
			"-extensions", svc.conf.Profiles.CAExts)
		if err != nil {
			return err
		}
	} else {
		if err := svc.generateCSR(ctx, keyPath, csrPath, subject, "", nil); err != nil {
			return err
		}

		err = svc.signCSR(ctx, csrPath, certPath, svc.caDir(input.Parent),
			svc.conf.Profiles.CAExts,
			models.NewDurationValidity(svc.conf.Toolkit.CertDays))
		if err != nil {
			return err
		}
	}

	// Downstream consumers read <name>.key/<name>.crt from the output
	// directory and never see the working-directory layout.
	if err := copyFile(keyPath, svc.outputPath(input.CA.Name+".key")); err != nil {
		return err
	}
	if err := copyFile(certPath, svc.outputPath(input.CA.Name+".crt")); err != nil {
		return err
	}

	for _, sub := range input.CA.Subordinates {
		err := svc.InitCA(ctx, InitCAInput{CA: sub, Parent: input.CA.Name})
		if err != nil {
			return err
		}
	}

	return nil
}

// resetCADir recreates the directory layout the toolkit's ca command expects:
// an empty certificate database, a serial counter starting at 01 and an empty
// newcerts store. index.txt and serial are created exclusively so a partially
// cleared directory surfaces instead of being silently reused.
func resetCADir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.Mkdir(filepath.Join(dir, "newcerts"), 0o755); err != nil {
		return err
	}

	index, err := os.OpenFile(filepath.Join(dir, "index.txt"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := index.Close(); err != nil {
		return err
	}

	serial, err := os.OpenFile(filepath.Join(dir, "serial"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := serial.WriteString("01\n"); err != nil {
		serial.Close()
		return err
	}
	return serial.Close()
}

func (svc *FixtureGenerator) generateKey(ctx context.Context, keyPath string) error {
	return svc.runner.Run(ctx, nil,
		"genrsa",
		"-out", keyPath,
		strconv.Itoa(svc.conf.Toolkit.KeyLength))
}

func (svc *FixtureGenerator) generateCSR(ctx context.Context, keyPath, csrPath, subject, reqExts string, extraEnv map[string]string) error {
	args := []string{
		"req", "-new",
		"-key", keyPath,
		"-out", csrPath,
		"-subj", subject,
		"-" + svc.conf.Toolkit.Digest,
	}
	if reqExts != "" {
		args = append(args, "-reqexts", reqExts)
	}
	return svc.runner.Run(ctx, extraEnv, args...)
}

// signCSR submits a CSR to the CA living in caDir. The CA's working
// directory reaches the toolkit through the CAHOME variable, scoped to this
// single child process.
func (svc *FixtureGenerator) signCSR(ctx context.Context, csrPath, certPath, caDir, extensions string, validity models.Validity) error {
	if err := validity.Validate(); err != nil {
		return err
	}

	args := []string{
		"ca",
		"-in", csrPath,
		"-out", certPath,
		"-md", svc.conf.Toolkit.Digest,
		"-extensions", extensions,
	}

	switch validity.Type {
	case models.Duration:
		args = append(args, "-days", strconv.Itoa(validity.Days))
	case models.Time:
		args = append(args,
			"-startdate", models.ToolkitTime(validity.NotBefore),
			"-enddate", models.ToolkitTime(validity.NotAfter))
	}

	return svc.runner.Run(ctx, map[string]string{openssl.EnvCAHome: caDir}, args...)
}

// copyFile preserves the source mode so private keys keep the permissions the
// toolkit wrote them with.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
