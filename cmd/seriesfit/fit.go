package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/seriesfit/boundary"
	"github.com/cwbudde/seriesfit/opt"
	"github.com/cwbudde/seriesfit/problem"
	"github.com/cwbudde/seriesfit/run"
	"github.com/cwbudde/seriesfit/sampleio"
)

var (
	fitIters              int
	fitPop                int
	fitSeed               uint64
	fitParallel           int
	fitNoise              float64
	fitDataDir            string
	fitCheckpointInterval int
	fitX0                 []float64
	fitSigma0             []float64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit logistic growth parameters to a generated time series",
	Long: `Generates a logistic growth series at known parameters (optionally with
Gaussian noise), then recovers them by driving an evolution strategy
through the ask-tell loop against a sum-of-squares objective.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().IntVar(&fitIters, "iters", 200, "Max iterations")
	fitCmd.Flags().IntVar(&fitPop, "pop", 0, "Population size (0 = algorithm default)")
	fitCmd.Flags().Uint64Var(&fitSeed, "seed", 42, "Random seed")
	fitCmd.Flags().IntVar(&fitParallel, "parallel", 1, "Concurrent evaluations per batch")
	fitCmd.Flags().Float64Var(&fitNoise, "noise", 0, "Stddev of Gaussian observation noise (0 = noiseless)")
	fitCmd.Flags().StringVar(&fitDataDir, "data-dir", "", "Base directory for checkpoints and traces (empty = disabled)")
	fitCmd.Flags().IntVar(&fitCheckpointInterval, "checkpoint-interval", 10, "Checkpoint every N iterations")
	fitCmd.Flags().Float64SliceVar(&fitX0, "x0", []float64{0.015, 500}, "Initial search point (r,k)")
	fitCmd.Flags().Float64SliceVar(&fitSigma0, "sigma0", []float64{0.0001, 0.01}, "Initial per-dimension step sizes")

	rootCmd.AddCommand(fitCmd)
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func addNoise(values []float64, stddev float64, src rand.Source) {
	noise := distuv.Normal{Mu: 0, Sigma: stddev, Src: src}
	for i := range values {
		values[i] += noise.Rand()
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	model, err := problem.NewLogisticModel(2)
	if err != nil {
		return err
	}

	trueParams := []float64{0.015, 500}
	times := linspace(0, 1000, 1000)
	values, err := model.Simulate(trueParams, times)
	if err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}
	if fitNoise > 0 {
		addNoise(values, fitNoise, rand.NewPCG(fitSeed, fitSeed))
	}

	p, err := problem.NewSingleOutputProblem(model, times, values)
	if err != nil {
		return err
	}
	score := problem.SumOfSquaresError(p)

	bounds, err := boundary.NewRectangular([]float64{0, 400}, []float64{0.03, 600}, nil)
	if err != nil {
		return err
	}

	esOpts := []opt.Option{opt.WithBoundaries(bounds), opt.WithSeed(fitSeed)}
	if fitPop > 0 {
		esOpts = append(esOpts, opt.WithPopulationSize(fitPop))
	}
	es, err := opt.NewES(fitX0, fitSigma0, esOpts...)
	if err != nil {
		return err
	}

	ctrlOpts := []run.Option{
		run.WithMaxIterations(fitIters),
		run.WithParallel(fitParallel),
	}
	if fitDataDir != "" {
		ctrlOpts = append(ctrlOpts, run.WithPersistence(fitDataDir, fitCheckpointInterval))
	}
	controller, err := run.NewController(es, run.Evaluator(score), ctrlOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := controller.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	trueScore, err := score(trueParams)
	if err != nil {
		return err
	}

	fmt.Println("Score at true parameters:")
	fmt.Println(sampleio.FormatFloat(trueScore))
	fmt.Println("Found solution:          True parameters:")
	for k, x := range res.BestParams {
		fmt.Printf("%s    %s\n", sampleio.FormatFloat(x), sampleio.FormatFloat(trueParams[k]))
	}
	fmt.Printf("Best score %.6g after %d iterations in %s (run %s)\n",
		res.BestScore, res.Iterations, elapsed.Round(time.Millisecond), res.RunID)

	return nil
}
