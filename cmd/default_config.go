package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"

	sim "github.com/polymorph-sim/polymorph-sim/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// loadParams resolves the parameter snapshot: embedded defaults, then the
// optional YAML file, then any flag the user explicitly set.
func loadParams(cmd *cobra.Command, path string) (*sim.Params, error) {
	params, err := sim.LoadParams(defaultsYAML, path)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, params)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// applyFlagOverrides copies flag values into params only when the flag was
// set on the command line, so YAML values are not clobbered by flag defaults.
func applyFlagOverrides(cmd *cobra.Command, params *sim.Params) {
	flags := cmd.Flags()
	if flags.Changed("generations") {
		params.Generations = generations
	}
	if flags.Changed("eggs-per-generation") {
		params.EggsPerGeneration = eggsPerGeneration
	}
	if flags.Changed("freq-dep") {
		params.Mating.FrequencyDependence = freqDepCoef
	}
	if flags.Changed("stop-when-fixated") {
		params.StopWhenFixated = stopWhenFixated
	}
	if flags.Changed("proportion-females") {
		params.ProportionFemales = proportionFemales
	}
}
