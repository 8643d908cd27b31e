package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/document"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var uploadPrompt = promptui.Select{
	Label: "Would you like to share a resume before we begin?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive screening interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to a resume file to ingest without prompting")
	runCmd.Flags().Bool("no-store", false, "do not persist the session (farewell reports a local session)")
}

// run drives one complete interview from resume upload to farewell.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting talentscout", zap.String("version", version))

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		log.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(
		ctx,
		apiKey,
		config.Gemini.Model,
		config.Gemini.MaxRetries,
		config.Gemini.MaxLogLength,
		logger.WithCompleterFields(log, "gemini", config.Gemini.Model),
	)
	if err != nil {
		log.Fatal("building gemini generator", zap.Error(err))
	}

	engine := interview.NewEngine(interview.Deps{
		Completer: generator,
		Converter: document.NewConverter(log),
		Store:     buildStore(ctx, cmd, config, log),
		Logger:    log,
	}, interview.Options{
		ExitKeywords:     config.Interview.ExitKeywords,
		AbsenceSentinels: config.Interview.AbsenceSentinels,
		Labels:           configuredLabels(config.Interview.FieldLabels),
	})

	if err := ingestResume(ctx, cmd, engine, log); err != nil {
		log.Fatal("resume ingestion", zap.Error(err))
	}

	chat(ctx, engine, log)
}

// ingestResume handles the optional upload phase before the chat loop.
func ingestResume(ctx context.Context, cmd *cobra.Command, engine *interview.Engine, log *zap.Logger) error {
	path := strings.TrimSpace(cmd.Flag("resume").Value.String())

	if path == "" {
		_, action, err := uploadPrompt.Run()
		if err != nil {
			return fmt.Errorf("upload prompt: %w", err)
		}
		if action == PromptNo {
			log.Info("continuing without a resume")
			return nil
		}

		pathPrompt := promptui.Prompt{
			Label: "Path to the resume file (pdf, docx or txt)",
			Validate: func(input string) error {
				if _, err := os.Stat(strings.TrimSpace(input)); err != nil {
					return errors.New("file not found")
				}
				return nil
			},
		}
		if path, err = pathPrompt.Run(); err != nil {
			return fmt.Errorf("path prompt: %w", err)
		}
		path = strings.TrimSpace(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading resume file: %w", err)
	}

	ack, err := engine.HandleResumeUpload(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	fmt.Printf("\nTalentScout: %s\n\n", ack)
	return nil
}

// chat runs the sequential turn loop until the candidate leaves or input
// ends.
func chat(ctx context.Context, engine *interview.Engine, log *zap.Logger) {
	if engine.Session().Transcript.Len() == 0 {
		fmt.Println("\nTalentScout: Hello! I'm TalentScout, your hiring assistant. Let's get started. Say hi, or type 'bye' at any time to finish.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			log.Info("input closed, leaving the session", zap.Bool("persisted", engine.Session().ID != ""))
			return
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		reply, err := engine.HandleUserMessage(ctx, message)
		if errors.Is(err, interview.ErrSessionEnded) {
			return
		}
		if err != nil {
			log.Warn("turn failed", zap.Error(err))
			continue
		}

		fmt.Printf("\nTalentScout: %s\n\n", reply)

		if engine.Ended() {
			return
		}
	}
}

// buildStore picks the persistence backend. Storage problems are never
// fatal: the interview falls back to in-memory persistence.
func buildStore(ctx context.Context, cmd *cobra.Command, config *Config, log *zap.Logger) store.Store {
	if cmd.Flag("no-store").Value.String() == "true" {
		return nil
	}

	if !config.Storage.Enabled {
		return store.NewMemory()
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "postgres dsn",
		Value: config.Storage.DSN,
		File:  config.Storage.DSNFile,
		Env:   "TALENTSCOUT_DB_DSN",
	})
	if err != nil {
		log.Warn("storage enabled but dsn not resolvable, falling back to in-memory sessions", zap.Error(err))
		return store.NewMemory()
	}

	pg, err := store.NewPostgres(dsn)
	if err != nil {
		log.Warn("connecting to postgres failed, falling back to in-memory sessions", zap.Error(err))
		return store.NewMemory()
	}

	if err := pg.Migrate(ctx); err != nil {
		log.Warn("migrating sessions table failed, falling back to in-memory sessions", zap.Error(err))
		return store.NewMemory()
	}

	return pg
}

// configuredLabels converts the config label map into extraction labels,
// sorted for stable behavior.
func configuredLabels(labels map[string]string) []interview.Label {
	if len(labels) == 0 {
		return nil
	}

	result := make([]interview.Label, 0, len(labels))
	for name, field := range labels {
		result = append(result, interview.Label{Name: name, Field: field})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}
