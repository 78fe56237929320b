package main

import (
	"flag"

	"github.com/danmuck/chainctl/internal/config"
	"github.com/danmuck/chainctl/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	output := flag.String("output", "chainctl.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "chainctl.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()
	logging.ConfigureRuntime()

	if *validate {
		if _, err := config.Load(*input); err != nil {
			log.Fatal().Err(err).Str("path", *input).Msg("invalid config")
		}
		log.Info().Str("path", *input).Msg("config validated")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal().Err(err).Str("path", *output).Msg("write template")
	}
	log.Info().Str("path", *output).Msg("config template written")
}
