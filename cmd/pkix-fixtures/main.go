package main

import (
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/lamassuiot/pkix-fixtures/pkg/config"
	"github.com/lamassuiot/pkix-fixtures/pkg/generator"
	"github.com/lamassuiot/pkix-fixtures/pkg/helpers"
	"github.com/lamassuiot/pkix-fixtures/pkg/models"
	"github.com/lamassuiot/pkix-fixtures/pkg/openssl"
)

var (
	version   string = "v0"    // tool version
	sha1ver   string = "-"     // sha1 revision used to build the program
	buildTime string = "devTS" // when the executable was built
)

func main() {
	log.SetFormatter(helpers.LogFormatter)
	log.Infof("starting fixture generator: version=%s buildTime=%s sha1ver=%s", version, buildTime, sha1ver)

	defaults := config.Defaults()
	conf, err := config.LoadConfig[config.GeneratorConfig](&defaults)
	if err != nil {
		log.Fatalf("something went wrong while loading config. Exiting: %s", err)
	}

	if err := config.Validate(conf); err != nil {
		log.Fatalf("invalid config. Exiting: %s", err)
	}

	globalLogLevel, err := log.ParseLevel(string(conf.Logs.Level))
	if err != nil {
		log.Warn("unknown log level. defaulting to 'info' log level")
		globalLogLevel = log.InfoLevel
	}
	log.SetLevel(globalLogLevel)

	log.Infof("global log level set to '%s'", globalLogLevel)

	confBytes, err := yaml.Marshal(conf)
	if err != nil {
		log.Fatalf("could not dump yaml config: %s", err)
	}

	log.Debugf("===================================================")
	log.Debugf("%s", confBytes)
	log.Debugf("===================================================")

	lRunner := helpers.SetupLogger(conf.Logs.Level, "PKIX Fixtures", "Toolkit Runner")
	runner := openssl.NewRunner(lRunner, conf.Toolkit)

	lGenerator := helpers.SetupLogger(conf.Logs.Level, "PKIX Fixtures", "Generator")
	svc, err := generator.NewFixtureGenerator(generator.FixtureGeneratorBuilder{
		Logger: lGenerator,
		Config: *conf,
		Runner: runner,
	})
	if err != nil {
		log.Fatalf("could not build fixture generator. Exiting: %s", err)
	}

	ctx, stop := signal.NotifyContext(helpers.InitContext(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set := models.CanonicalFixtureSet(time.Now(), conf.Toolkit.CertDays, conf.Toolkit.CRLDays, conf.Profiles.CRLExts)

	if err := svc.Run(ctx, generator.RunInput{Set: set}); err != nil {
		log.Fatalf("fixture generation failed. Exiting: %s", err)
	}

	if conf.Verify {
		if err := svc.Verify(ctx, generator.VerifyInput{Set: set}); err != nil {
			log.Fatalf("fixture verification failed. Exiting: %s", err)
		}
	}

	log.Infof("done. artifacts written to %s", svc.OutputDir())
}
