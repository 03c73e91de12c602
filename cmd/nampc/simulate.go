// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/nampc/container"
	"github.com/katalvlaran/nampc/errkind"
	"github.com/katalvlaran/nampc/synth"
)

func newSimulateCmd(rf *rootFlags) *cobra.Command {
	var (
		out                                          string
		seed                                         uint64
		nSamples, cells, batches, clusters, neighbors int
		signal                                       float64
		sampleID, prefix                             string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic container with a planted sample-level signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return rf.fail(fmt.Errorf("--out is required: %w", errkind.ErrConfiguration))
			}
			ds, err := synth.Generate(
				synth.WithSeed(seed),
				synth.WithSamples(nSamples),
				synth.WithCellsPerSample(cells),
				synth.WithBatches(batches),
				synth.WithClusters(clusters),
				synth.WithNeighbors(neighbors),
				synth.WithSignal(signal),
				synth.WithIDColumn(sampleID),
				synth.WithPrefix(prefix),
			)
			if err != nil {
				return rf.fail(err)
			}
			if err := container.Create(cmd.Context(), out, ds); err != nil {
				return rf.fail(err)
			}
			rf.logger.Info("wrote synthetic container", "path", out,
				"samples", ds.Table.Len(), "cells", ds.Assignment.Len(), "edges", ds.Graph.NNZ(), "graph", ds.GraphKey())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&out, "out", "", "path of the container to create")
	f.Uint64Var(&seed, "seed", synth.DefaultSeed, "generator seed")
	f.IntVar(&nSamples, "samples", synth.DefaultSamples, "number of samples")
	f.IntVar(&cells, "cells", synth.DefaultCellsPerSample, "cells per sample")
	f.IntVar(&batches, "batches", synth.DefaultBatches, "number of batches")
	f.IntVar(&clusters, "clusters", synth.DefaultClusters, "number of cell populations")
	f.IntVar(&neighbors, "neighbors", synth.DefaultNeighbors, "k of the kNN graph")
	f.Float64Var(&signal, "signal", synth.DefaultSignal, "phenotype effect on cluster-0 abundance")
	f.StringVar(&sampleID, "sampleid", synth.DefaultIDColumn, "sample id column name")
	f.StringVar(&prefix, "prefix", "", "obsp key prefix for the graphs")

	return cmd
}
