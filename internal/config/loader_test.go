package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/champsim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Simulation.Competitors, convey.ShouldHaveLength, 6)
				convey.So(cfg.Simulation.Seed, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CHAMPSIM_ADDR", ":8080")
			_ = os.Setenv("CHAMPSIM_WORKER_COUNT", "16")
			_ = os.Setenv("CHAMPSIM_SIMULATION__SEASONS", "5000")
			_ = os.Setenv("CHAMPSIM_SIMULATION__SEED", "2025")
			_ = os.Setenv("CHAMPSIM_SIMULATION__TARGET", "Norris")
			_ = os.Setenv("CHAMPSIM_SIMULATION__SCHEDULE", "Low,Low")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.Simulation.Seasons, convey.ShouldEqual, 5000)
				convey.So(cfg.Simulation.Seed, convey.ShouldNotBeNil)
				convey.So(*cfg.Simulation.Seed, convey.ShouldEqual, uint64(2025))
				convey.So(cfg.Simulation.Target, convey.ShouldEqual, "Norris")
			})

			convey.Convey("And a list from env should replace the default list", func() {
				convey.So(cfg.Simulation.Schedule, convey.ShouldResemble, []string{"Low", "Low"})
			})
		})

		convey.Convey("When loading config with a YAML scenario", func() {
			yamlContent := `
addr: ":9090"
worker_count: 4
simulation:
  seasons: 1000
  target: B
  dnf_probability: 0
  competitors:
    - name: A
      points: 10
      main_weight: 0.6
      secondary_weight: 0.5
    - name: B
      points: 8
      main_weight: 0.4
      secondary_weight: 0.5
  main_points: [10, 5]
  secondary_points: [3]
  modifiers:
    Street: [1.0, 1.2]
  schedule: [Street]
  secondary_events: []
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHAMPSIM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file should replace the default scenario", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				sim := cfg.Simulation
				convey.So(sim.Competitors, convey.ShouldResemble, []config.Competitor{
					{Name: "A", Points: 10, MainWeight: 0.6, SecondaryWeight: 0.5},
					{Name: "B", Points: 8, MainWeight: 0.4, SecondaryWeight: 0.5},
				})
				convey.So(sim.MainPoints, convey.ShouldResemble, []int{10, 5})
				convey.So(sim.SecondaryPoints, convey.ShouldResemble, []int{3})
				convey.So(sim.Modifiers, convey.ShouldResemble, map[string][]float64{"Street": {1.0, 1.2}})
				convey.So(sim.Schedule, convey.ShouldResemble, []string{"Street"})
				convey.So(sim.SecondaryEvents, convey.ShouldBeEmpty)
				convey.So(sim.DNFProbability, convey.ShouldEqual, 0.0)
			})

			convey.Convey("And the scenario should build a setup", func() {
				setup, err := cfg.Simulation.Setup()
				convey.So(err, convey.ShouldBeNil)
				convey.So(setup.Len(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHAMPSIM_CONFIG", tmpFile)
			_ = os.Setenv("CHAMPSIM_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("CHAMPSIM_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")     // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)    // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)   // Overridden by env
				convey.So(cfg.MaxListLimit, convey.ShouldEqual, 100) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHAMPSIM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFile(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CHAMPSIM_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CHAMPSIM_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CHAMPSIM_CONFIG",
		"CHAMPSIM_ADDR",
		"CHAMPSIM_QUEUE_SIZE",
		"CHAMPSIM_WORKER_COUNT",
		"CHAMPSIM_SIMULATION__SEASONS",
		"CHAMPSIM_SIMULATION__SEED",
		"CHAMPSIM_SIMULATION__TARGET",
		"CHAMPSIM_SIMULATION__SCHEDULE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "champsim-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
