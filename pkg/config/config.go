package config

import (
	"os"

	"github.com/go-playground/validator/v10"
)

// GeneratorConfig drives a full fixture-generation run. The zero config is
// not usable; Defaults() returns the canonical setup that reproduces the
// reference fixture set.
type GeneratorConfig struct {
	Logs Logging `mapstructure:"logs"`

	// OutputDir receives the <name>.key/<name>.crt/<name>.crl artifacts.
	// Empty means the process working directory.
	OutputDir string `mapstructure:"output_dir"`

	// WorkingBase holds one scratch subdirectory per CA. Its per-CA
	// subdirectories are wiped and recreated on every run.
	WorkingBase string `mapstructure:"working_base" validate:"required"`

	// ScratchDir receives transient CSR files.
	ScratchDir string `mapstructure:"scratch_dir" validate:"required"`

	// Verify re-reads the generated artifacts after the run and checks
	// subjects, issuer chains and CRL contents.
	Verify bool `mapstructure:"verify"`

	Toolkit  ToolkitConfig  `mapstructure:"toolkit"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
}

// ToolkitConfig describes the external openssl-compatible binary and the
// parameters passed on every invocation.
type ToolkitConfig struct {
	Binary     string `mapstructure:"binary" validate:"required"`
	ConfigFile string `mapstructure:"config_file" validate:"required"`
	KeyLength  int    `mapstructure:"key_length" validate:"required,min=512"`
	Digest     string `mapstructure:"digest" validate:"required"`
	CertDays   int    `mapstructure:"cert_days" validate:"required,min=1"`
	CRLDays    int    `mapstructure:"crl_days" validate:"required,min=1"`
}

// ProfilesConfig names the extension sections defined in the toolkit config
// file. The sections themselves are owned by that file, not by this tool.
type ProfilesConfig struct {
	CAExts        string `mapstructure:"ca_exts" validate:"required"`
	EndEntityExts string `mapstructure:"end_entity_exts" validate:"required"`
	AltNameReq    string `mapstructure:"altname_req" validate:"required"`
	CRLExts       string `mapstructure:"crl_exts" validate:"required"`
}

func Defaults() GeneratorConfig {
	return GeneratorConfig{
		Logs:        Logging{Level: Info},
		WorkingBase: "/tmp/pkix-test-data",
		ScratchDir:  os.TempDir(),
		Verify:      true,
		Toolkit: ToolkitConfig{
			Binary:     "openssl",
			ConfigFile: "configs/openssl.cnf",
			KeyLength:  2048,
			Digest:     "sha256",
			CertDays:   365 * 10 * 3,
			CRLDays:    365 * 10 * 3,
		},
		Profiles: ProfilesConfig{
			CAExts:        "ca_exts",
			EndEntityExts: "end_entity_exts",
			AltNameReq:    "altname_req",
			CRLExts:       "crl_ext",
		},
	}
}

var configValidate = validator.New()

func Validate(conf *GeneratorConfig) error {
	return configValidate.Struct(conf)
}
