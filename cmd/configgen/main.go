package main

import (
	"flag"
	"log"

	"github.com/danmuck/ofwire/internal/config"
)

func main() {
	output := flag.String("output", config.DefaultInspectorPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", config.DefaultInspectorPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.LoadInspectorConfig(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated inspector config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote inspector config template to %s", *output)
}
