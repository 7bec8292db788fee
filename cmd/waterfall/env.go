package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// envFlags maps environment variables onto flag defaults.
var envFlags = map[string]string{
	"WATERFALL_WORKERS": "workers",
	"WATERFALL_BACKEND": "backend",
	"WATERFALL_WINDOW":  "window",
	"WATERFALL_TAPER":   "taper",
}

// applyEnv loads dotenv (if present) into the environment and then sets every
// flag the command line left unchanged from its matching variable.
func applyEnv(flags *pflag.FlagSet, dotenv string) error {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", dotenv, err)
	}
	for env, name := range envFlags {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("%s=%q: %w", env, v, err)
		}
	}
	return nil
}
