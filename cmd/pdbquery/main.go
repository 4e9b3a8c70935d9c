package main

import (
	"github.com/rs/zerolog/log"
	"github.com/tansive/pdbquery/internal/cli"
	"github.com/tansive/pdbquery/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger("")
}

func main() {
	log.Debug().Msg("starting pdbquery")
	cli.Execute()
}
