package icpgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/icpgo"
	"github.com/hupe1980/icpgo/pointcloud"
	"github.com/hupe1980/icpgo/transform"
)

func ExampleRegistrationICP() {
	var targetPoints, targetNormals [][3]float32
	coords := []float32{-1, -0.5, 0, 0.5, 1}
	for _, y := range coords {
		for _, z := range coords {
			targetPoints = append(targetPoints, [3]float32{0, y, z})
			targetNormals = append(targetNormals, [3]float32{1, 0, 0})
		}
	}

	// The source is the same surface shifted along the normals.
	sourcePoints := make([][3]float32, len(targetPoints))
	for i, p := range targetPoints {
		sourcePoints[i] = [3]float32{p[0] - 0.05, p[1], p[2]}
	}

	source, err := pointcloud.New(sourcePoints)
	if err != nil {
		log.Fatal(err)
	}

	target, err := pointcloud.New(targetPoints, pointcloud.WithNormals(targetNormals))
	if err != nil {
		log.Fatal(err)
	}

	result, err := icpgo.RegistrationICP(
		context.Background(),
		source, target,
		0.4,
		transform.Identity(),
		icpgo.NewPointToPlane(),
		icpgo.DefaultICPConvergenceCriteria(),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Fitness: %.2f\n", result.Fitness)
	fmt.Printf("Inlier RMSE: %.4f\n", result.InlierRMSE)
	fmt.Printf("Shift: %.2f\n", result.Transformation.Translation().X)
	// Output:
	// Fitness: 1.00
	// Inlier RMSE: 0.0000
	// Shift: 0.05
}
