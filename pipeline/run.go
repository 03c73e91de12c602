// SPDX-License-Identifier: MIT
// Package: pipeline
//
// Purpose:
//   - One linear batch job: Graph → NAM → Residual → Decompose → Rank → Export.
//
// Stages:
//  1. Resolve configuration (schedule, method, ks override file).
//  2. Load the container and check graph connectivity.
//  3. Build the NAM.
//  4. Residualize against batch and covariates.
//  5. Decompose into N − DOF components.
//  6. Select or validate the component counts.
//  7. Publish ks.csv, nampcs.csv (and summary.yaml).
//
// Nothing reaches the result folder unless stages 1–6 succeed.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/nampc/cellgraph"
	"github.com/katalvlaran/nampc/container"
	"github.com/katalvlaran/nampc/export"
	"github.com/katalvlaran/nampc/nam"
	"github.com/katalvlaran/nampc/rank"
	"github.com/katalvlaran/nampc/residual"
	"github.com/katalvlaran/nampc/spectral"
)

// Ks sources recorded in the summary.
const (
	KsFromThresholds = "thresholds"
	KsFromOverride   = "override"
)

// Result carries every intermediate of a run.
type Result struct {
	Dataset       *container.Dataset
	NAM           *nam.NAM
	Residual      *residual.Result
	Decomposition *spectral.Decomposition
	Ks            []int
	KsSource      string
	Paths         []string
}

// Run executes cfg end to end, reading the container at cfg.Input.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("loading data", "path", cfg.Input, "sampleid", cfg.SampleID)
	store, err := container.Open(ctx, cfg.Input)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if cfg.CustomConnectivities != "" {
		logger.Info("using custom graph", "prefix", cfg.CustomConnectivities)
	}
	ds, err := store.Load(ctx, container.LoadOptions{SampleID: cfg.SampleID, Prefix: cfg.CustomConnectivities})
	if err != nil {
		return nil, err
	}

	return RunDataset(ctx, cfg, ds, logger)
}

// RunDataset executes cfg on an already loaded dataset. cfg.Input is only
// recorded in the summary.
func RunDataset(ctx context.Context, cfg Config, ds *container.Dataset, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Stage 1
	if ds == nil || ds.Table == nil || ds.Assignment == nil || ds.Graph == nil {
		return nil, ErrNilDataset
	}
	if cfg.ResultDir == "" {
		return nil, fmt.Errorf("res_folder: %w", ErrMissingOutput)
	}
	if err := cfg.validateTuning(); err != nil {
		return nil, err
	}
	sched, err := cfg.ResolvedSchedule()
	if err != nil {
		return nil, err
	}
	method, err := spectral.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	var userKs []int
	if cfg.KsFile != "" {
		if userKs, err = export.ReadKs(cfg.KsFile); err != nil {
			return nil, err
		}
	}

	// Stage 2
	t := ds.Table
	_, components, err := cellgraph.Components(ctx, ds.Graph)
	if err != nil {
		return nil, err
	}
	if components > 1 {
		logger.Info("graph is disconnected", "components", components)
	}
	for _, s := range ds.Assignment.EmptySamples() {
		logger.Warn("sample has no cells", "sample", t.IDs()[s])
	}
	var resOpts []residual.Option
	var batches int
	if cfg.CorrectBatch {
		codes, levels, err := t.Batches()
		if err != nil {
			return nil, err
		}
		batches = len(levels)
		resOpts = append(resOpts, residual.WithBatches(codes))
	}
	covNames := []string(nil)
	if len(cfg.Covariates) > 0 {
		X, names, err := t.Covariates(cfg.Covariates)
		if err != nil {
			return nil, err
		}
		covNames = names
		resOpts = append(resOpts, residual.WithCovariates(X))
	}
	if cfg.Standardize {
		resOpts = append(resOpts, residual.WithStandardize())
	}

	// Stage 3
	logger.Info("computing NAM", "samples", t.Len(), "cells", ds.Assignment.Len(), "schedule", sched.String())
	abundance, err := nam.Build(ds.Graph, ds.Assignment,
		nam.WithSchedule(sched), nam.WithSelfWeight(cfg.SelfWeight), nam.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	// Stage 4
	res, err := residual.Residualize(abundance.Matrix, resOpts...)
	if err != nil {
		return nil, err
	}
	logger.Info("residualized", "batches", batches, "covariates", covNames, "dof", res.DOF)

	// Stage 5
	n, m := res.Matrix.Dims()
	k := min(n-res.DOF, m)
	if k < 1 {
		return nil, fmt.Errorf("%d samples, %d dof: %w", n, res.DOF, ErrNoComponents)
	}
	dec, err := spectral.Decompose(res.Matrix,
		spectral.WithComponents(k), spectral.WithMethod(method), spectral.WithSeed(cfg.Seed))
	if err != nil {
		return nil, err
	}
	logger.Info("decomposed", "method", method.String(), "components", dec.Components(),
		"pc1_varexp", dec.VarianceExplained[0])

	// Stage 6
	var (
		ks     []int
		source string
	)
	if cfg.KsFile != "" {
		ks, err = rank.Override(userKs, dec.Components())
		source = KsFromOverride
	} else {
		rankOpts := []rank.Option{rank.WithLogger(logger)}
		if len(cfg.Thresholds) > 0 {
			rankOpts = append(rankOpts, rank.WithThresholds(cfg.Thresholds...))
		}
		ks, err = rank.Select(dec.VarianceExplained, rankOpts...)
		source = KsFromThresholds
	}
	if err != nil {
		return nil, err
	}
	logger.Info("selected components", "ks", ks, "source", source)

	// Stage 7
	out := export.Output{SampleIDs: t.IDs(), Scores: dec.Scores, Ks: ks}
	if cfg.Summary {
		out.Summary = summarize(cfg, ds, components, abundance, res, dec, covNames, batches, ks, source)
	}
	paths, err := export.Write(cfg.ResultDir, out)
	if err != nil {
		return nil, err
	}
	logger.Info("saved NAM-PC scores", "dir", cfg.ResultDir, "max_k", export.MaxK(ks))

	return &Result{
		Dataset:       ds,
		NAM:           abundance,
		Residual:      res,
		Decomposition: dec,
		Ks:            ks,
		KsSource:      source,
		Paths:         paths,
	}, nil
}

func summarize(cfg Config, ds *container.Dataset, components int, a *nam.NAM, res *residual.Result,
	dec *spectral.Decomposition, covs []string, batches int, ks []int, source string) *export.Summary {
	ids := ds.Table.IDs()
	var empty []string
	for _, s := range ds.Assignment.EmptySamples() {
		empty = append(empty, ids[s])
	}
	s := &export.Summary{
		Input:             cfg.Input,
		SampleID:          ds.Table.IDColumn(),
		Samples:           ds.Table.Len(),
		Cells:             ds.Assignment.Len(),
		EmptySamples:      empty,
		GraphKey:          ds.GraphKey(),
		Edges:             ds.Graph.NNZ(),
		GraphComponents:   components,
		IsolatedCells:     a.Isolated,
		Schedule:          a.Schedule.String(),
		Hops:              a.Hops,
		SelfWeight:        a.SelfWeight,
		Batches:           batches,
		Covariates:        covs,
		DOF:               res.DOF,
		Standardized:      cfg.Standardize,
		Method:            dec.Method.String(),
		Seed:              cfg.Seed,
		Components:        dec.Components(),
		VarianceExplained: dec.VarianceExplained,
		Cumulative:        rank.Cumulative(dec.VarianceExplained, rank.DefaultPrecision),
		KsSource:          source,
		Ks:                ks,
	}
	if source == KsFromThresholds {
		s.Thresholds = cfg.Thresholds
		if len(s.Thresholds) == 0 {
			s.Thresholds = rank.DefaultThresholds
		}
	}

	return s
}
