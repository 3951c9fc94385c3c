package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/hupe1980/icpgo"
	"github.com/hupe1980/icpgo/pointcloud"
	"github.com/hupe1980/icpgo/testutil"
	"github.com/hupe1980/icpgo/transform"
)

func main() {
	seed := int64(4711)
	size := 20000

	rng := testutil.NewRNG(seed)
	points, normals := rng.SpherePoints(size, 1.0)

	// Ground truth: a small rotation about a skew axis plus a
	// translation. The registration should recover its inverse.
	truth := testutil.SmallMotion([3]float64{1, 2, 3}, 0.04, [3]float64{0.02, -0.01, 0.015})

	target, err := pointcloud.New(points, pointcloud.WithNormals(normals))
	if err != nil {
		log.Fatal(err)
	}

	source, err := pointcloud.New(testutil.Transformed(truth, points))
	if err != nil {
		log.Fatal(err)
	}

	metrics := &icpgo.BasicMetricsCollector{}

	fmt.Println("--- Register ---")
	fmt.Println("Points:", size)

	start := time.Now()

	result, err := icpgo.RegistrationICP(
		context.Background(),
		source, target,
		0.2,
		transform.Identity(),
		icpgo.NewPointToPlane(),
		icpgo.DefaultICPConvergenceCriteria(),
		icpgo.WithLogLevel(slog.LevelInfo),
		icpgo.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.2f\n\n", time.Since(start).Seconds())

	fmt.Printf("Fitness:     %.4f\n", result.Fitness)
	fmt.Printf("Inlier RMSE: %.6f\n", result.InlierRMSE)
	fmt.Printf("Translation: %+v\n", result.Transformation.Translation())

	stats := metrics.GetStats()
	fmt.Printf("Iterations:  %d\n", stats.IterationCount)
	fmt.Printf("Searches:    %d (avg %s)\n", stats.SearchCount, time.Duration(stats.SearchAvgNanos))
}
