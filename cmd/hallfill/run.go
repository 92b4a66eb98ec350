package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/loykin/hallfill"
	"github.com/loykin/hallfill/internal/config"
	"github.com/loykin/hallfill/internal/history"
	sqlitesink "github.com/loykin/hallfill/internal/history/sqlite"
	"github.com/loykin/hallfill/internal/transcript"
)

func runAutomation(f *RunFlags) error {
	var fc config.FileConfig
	if f.ConfigPath != "" {
		loaded, err := config.Load(f.ConfigPath)
		if err != nil {
			return err
		}
		fc = loaded
	}

	exe, err := resolveExecutable(f, fc)
	if err != nil {
		return err
	}
	count, err := resolveCount(f, fc)
	if err != nil {
		return err
	}

	if !f.Yes {
		okToGo, err := confirm(os.Stdin, os.Stdout,
			fmt.Sprintf("import %d users via %s, continue? (Y/n): ", count, exe))
		if err != nil {
			return err
		}
		if !okToGo {
			fmt.Println("aborted")
			return nil
		}
	}

	recorder, closeLog := buildRecorder(f, fc)
	defer closeLog()

	sink, err := buildSink(f, fc)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	ok, successes := hallfill.Run(context.Background(), hallfill.Options{
		Executable: exe,
		Count:      count,
		Vocabulary: fc.Vocabulary(),
		Timings:    fc.WorkflowTimings(),
		Waits:      fc.WorkflowWaits(),
		Recorder:   recorder,
		Sink:       sink,
		Seed:       f.Seed,
	})

	fmt.Printf("imported %d/%d users\n", successes, count)
	if !ok {
		return fmt.Errorf("run failed with %d/%d imported", successes, count)
	}
	return nil
}

// buildRecorder assembles the transcript: colored console output plus an
// optional rotated log file.
func buildRecorder(f *RunFlags, fc config.FileConfig) (transcript.Recorder, func()) {
	consoleRec := transcript.NewSlog(slog.New(
		transcript.NewColorTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	logFile := fc.LogFile()
	if f.LogPath != "" {
		logFile.Path = f.LogPath
	}
	w := logFile.Writer()
	if w == nil {
		return consoleRec, func() {}
	}
	file := transcript.NewSlog(slog.New(slog.NewTextHandler(w, nil)))
	return transcript.Tee{consoleRec, file}, func() { _ = w.Close() }
}

func buildSink(f *RunFlags, fc config.FileConfig) (history.Sink, error) {
	dsn := fc.HistoryDSN()
	if f.HistoryDSN != "" {
		dsn = f.HistoryDSN
	}
	if dsn == "" {
		return history.Nop{}, nil
	}
	return sqlitesink.New(dsn)
}

func resolveExecutable(f *RunFlags, fc config.FileConfig) (string, error) {
	if f.Executable != "" {
		return mustExist(f.Executable)
	}
	if fc.Executable != "" {
		return mustExist(fc.Executable)
	}

	candidates := fc.Candidates
	if len(candidates) == 0 {
		candidates = config.DefaultCandidates
	}
	if found, ok := findExecutable(candidates); ok {
		return found, nil
	}

	path, err := promptLine(os.Stdin, os.Stdout, "path to the target executable: ")
	if err != nil {
		return "", err
	}
	return mustExist(path)
}

func resolveCount(f *RunFlags, fc config.FileConfig) (int, error) {
	count := f.Count
	if count == 0 {
		count = fc.Count
	}
	if count == 0 {
		line, err := promptLine(os.Stdin, os.Stdout, "number of users to import: ")
		if err != nil {
			return 0, err
		}
		if _, err := fmt.Sscanf(line, "%d", &count); err != nil {
			return 0, fmt.Errorf("invalid count %q", line)
		}
	}
	if count <= 0 {
		return 0, fmt.Errorf("count must be positive, got %d", count)
	}
	return count, nil
}

func mustExist(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("target executable: %w", err)
	}
	return path, nil
}

