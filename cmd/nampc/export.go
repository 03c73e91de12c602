// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/nampc/pipeline"
)

// exportFlags mirror pipeline.Config; only flags set on the command line
// override values loaded from --config.
type exportFlags struct {
	configPath string
	cfg        pipeline.Config
}

func newExportCmd(rf *rootFlags) *cobra.Command {
	ef := &exportFlags{cfg: pipeline.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compute NAM-PCs and write ks.csv and nampcs.csv",
		Long: `Builds the neighborhood abundance matrix from the container's neighbor
graph, removes batch and covariate effects, decomposes the residual and
writes the selected number of components per sample.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ef.resolve(cmd)
			if err != nil {
				return rf.fail(err)
			}
			if _, err := pipeline.Run(cmd.Context(), cfg, rf.logger); err != nil {
				return rf.fail(err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	c := &ef.cfg
	f.StringVar(&ef.configPath, "config", "", "YAML run configuration; explicit flags override it")
	f.StringVar(&c.Input, "sc_object_path", "", "path to the single-cell container (SQLite)")
	f.StringVar(&c.ResultDir, "res_folder", "", "output folder")
	f.StringSliceVar(&c.Covariates, "covs", nil, "comma-separated covariate columns of samplem")
	f.BoolVar(&c.CorrectBatch, "corr_batch", false, "remove batch fixed effects (samplem column \"batch\"); also --corr_batch=true or --corr_batch True")
	f.StringVar(&c.SampleID, "sampleid", c.SampleID, "sample id column in samplem and obs")
	f.StringVar(&c.CustomConnectivities, "use_custom_connectivities", "", "obsp prefix of custom connectivities/distances")
	f.StringVar(&c.KsFile, "ks", "", "file with user-defined component counts, one per line")
	f.StringVar(&c.Schedule, "schedule", c.Schedule, "hop schedule: auto (adaptive, or fixed when --nsteps is set), fixed, average, adaptive")
	f.IntVar(&c.NSteps, "nsteps", 0, "hops for fixed and auto, maximum hops for adaptive (0 = default)")
	f.IntSliceVar(&c.Hops, "hops", nil, "hop counts averaged by the average schedule")
	f.Float64Var(&c.SelfWeight, "self_weight", c.SelfWeight, "weight added to every cell's own edge")
	f.StringVar(&c.Method, "method", c.Method, "decomposition: gram, svd, randomized")
	f.Uint64Var(&c.Seed, "seed", c.Seed, "seed of the randomized decomposition")
	f.Float64SliceVar(&c.Thresholds, "thresholds", c.Thresholds, "cumulative variance thresholds")
	f.BoolVar(&c.Standardize, "standardize", false, "scale residual columns to unit variance")
	f.BoolVar(&c.Summary, "summary", false, "also write summary.yaml")

	return cmd
}

// flagFields maps each config-backed flag to a setter copying the flag value.
var flagFields = map[string]func(dst *pipeline.Config, src pipeline.Config){
	"sc_object_path":            func(d *pipeline.Config, s pipeline.Config) { d.Input = s.Input },
	"res_folder":                func(d *pipeline.Config, s pipeline.Config) { d.ResultDir = s.ResultDir },
	"covs":                      func(d *pipeline.Config, s pipeline.Config) { d.Covariates = s.Covariates },
	"corr_batch":                func(d *pipeline.Config, s pipeline.Config) { d.CorrectBatch = s.CorrectBatch },
	"sampleid":                  func(d *pipeline.Config, s pipeline.Config) { d.SampleID = s.SampleID },
	"use_custom_connectivities": func(d *pipeline.Config, s pipeline.Config) { d.CustomConnectivities = s.CustomConnectivities },
	"ks":                        func(d *pipeline.Config, s pipeline.Config) { d.KsFile = s.KsFile },
	"schedule":                  func(d *pipeline.Config, s pipeline.Config) { d.Schedule = s.Schedule },
	"nsteps":                    func(d *pipeline.Config, s pipeline.Config) { d.NSteps = s.NSteps },
	"hops":                      func(d *pipeline.Config, s pipeline.Config) { d.Hops = s.Hops },
	"self_weight":               func(d *pipeline.Config, s pipeline.Config) { d.SelfWeight = s.SelfWeight },
	"method":                    func(d *pipeline.Config, s pipeline.Config) { d.Method = s.Method },
	"seed":                      func(d *pipeline.Config, s pipeline.Config) { d.Seed = s.Seed },
	"thresholds":                func(d *pipeline.Config, s pipeline.Config) { d.Thresholds = s.Thresholds },
	"standardize":               func(d *pipeline.Config, s pipeline.Config) { d.Standardize = s.Standardize },
	"summary":                   func(d *pipeline.Config, s pipeline.Config) { d.Summary = s.Summary },
}

// resolve returns the flag config, or the --config file with changed flags applied on top.
func (ef *exportFlags) resolve(cmd *cobra.Command) (pipeline.Config, error) {
	if ef.configPath == "" {
		return ef.cfg, nil
	}
	cfg, err := pipeline.LoadConfig(ef.configPath)
	if err != nil {
		return pipeline.Config{}, err
	}
	for name, set := range flagFields {
		if cmd.Flags().Changed(name) {
			set(&cfg, ef.cfg)
		}
	}

	return cfg, nil
}
