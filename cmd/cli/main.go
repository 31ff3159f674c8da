package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/coursetab/coursetab/pkg/model"
)

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	configPathPtr := flag.String("config", "", "Path to an optional config file overriding the scheduling tunables")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output as a table")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*verbosePtr)
	defer logger.Sync()

	// Validate arguments
	if *filePathPtr == "" {
		logger.Fatal("an input file must be specified")
	}

	config, timeout, err := loadConfig(*configPathPtr)
	if err != nil {
		logger.Fatal("cannot load config", zap.Error(err))
	}

	// Extract input
	input, err := model.InputFromJson(*filePathPtr)
	if err != nil {
		logger.Fatal("cannot parse input file", zap.Error(err))
	}
	logger.Debug("input loaded",
		zap.Int("sections", len(input.Courses)),
		zap.Int("instructors", len(input.Instructors)),
		zap.Int("rooms", len(input.Rooms)),
	)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Build timetable
	scheduler := model.NewScheduler(config)
	started := time.Now()
	assignments, err := scheduler.Build(ctx, input)
	elapsed := time.Since(started)

	if errors.Is(err, model.ErrInfeasible) {
		logger.Warn("no feasible schedule", zap.Duration("elapsed", elapsed))
		fmt.Println("Not satisfiable")
		os.Exit(20)
	} else if err != nil {
		logger.Fatal("an error occurred during timetable construction", zap.Error(err))
	}

	// Verify timetable correctness
	if !scheduler.Verify(assignments, input) {
		logger.Fatal("verification failed")
	}
	logger.Info("schedule built", zap.Duration("elapsed", elapsed), zap.Int("sections", len(assignments)))

	if *outFilePathPtr == "" {
		printTable(assignments)
		return
	}

	assignmentsJson, err := json.MarshalIndent(assignments, "", "  ")
	if err != nil {
		logger.Fatal("an error occurred while building output json", zap.Error(err))
	}
	if err := os.WriteFile(*outFilePathPtr, assignmentsJson, 0666); err != nil {
		logger.Fatal("an error occurred while writing to the output file", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// loadConfig reads the scheduling tunables, starting from the defaults and
// overriding them from the given config file when one is provided.
func loadConfig(path string) (model.Config, time.Duration, error) {
	defaults := model.DefaultConfig()
	viper.SetDefault("min_time", defaults.MinTime)
	viper.SetDefault("max_time", defaults.MaxTime)
	viper.SetDefault("time_step", defaults.TimeStep)
	viper.SetDefault("instructor_sections", defaults.InstructorSections)
	viper.SetDefault("time_multiplier", defaults.TimeMultiplier)
	viper.SetDefault("node_limit", defaults.NodeLimit)
	viper.SetDefault("solve_timeout", time.Duration(0))

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return model.Config{}, 0, err
		}
	}

	var config model.Config
	if err := viper.Unmarshal(&config); err != nil {
		return model.Config{}, 0, err
	}
	return config, viper.GetDuration("solve_timeout"), nil
}

func printTable(assignments []model.Assignment) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "DEPARTMENT\tCOURSE\tSECTION\tINSTRUCTOR\tTIME\tROOM")
	for _, assignment := range assignments {
		fmt.Fprintf(writer, "%v\t%v\t%d\t%v\t%d-%d\t%v\n",
			assignment.Course.Department,
			assignment.Course.Name,
			assignment.Course.Section,
			assignment.Instructor,
			assignment.TimeStart,
			assignment.TimeEnd,
			assignment.Room,
		)
	}
	writer.Flush()
}
