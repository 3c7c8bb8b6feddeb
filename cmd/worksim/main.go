package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"worksim/internal/config"
	"worksim/internal/dashboard"
	"worksim/internal/db"
	"worksim/internal/gen"
	"worksim/internal/migrate"
	"worksim/internal/repo"
	"worksim/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "worksim",
	Short: "Worksim synthetic dataset generator",
	Long: `Worksim populates a SQLite store with a plausible work-management
dataset (one organization, teams, users, projects, tasks and their
artifacts) for benchmarking and demos, and ships a read-only explorer
for inspecting the result.

Generation is a delete-then-regenerate batch: each run removes any
existing store at the target path and writes a fresh one.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WORKSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("db", db.DefaultPath, "path to the SQLite store")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(serveCmd())
}

func generateCmd() *cobra.Command {
	var (
		users       int
		density     float64
		seed        int64
		profilePath string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			defer log.Sync()

			profile := config.Default()
			if profilePath != "" {
				profile, err = config.Load(profilePath)
				if err != nil {
					return err
				}
			}

			path := viper.GetString("db")
			conn, err := db.Recreate(path)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}

			log.Info("starting generation", zap.String("db", path), zap.Int("users", users), zap.Float64("density", density))
			g := gen.New(conn, profile, seed)
			g.Log = log
			c, err := g.Run(cmd.Context(), gen.Options{NumUsers: users, Density: density})
			if err != nil {
				return err
			}

			r := repo.Repo{DB: conn}
			totalTasks, err := r.CountRows(cmd.Context(), "tasks")
			if err != nil {
				return err
			}
			summary := map[string]any{
				"db":       path,
				"org_id":   c.OrgID,
				"domain":   c.Domain,
				"teams":    len(c.Teams),
				"users":    len(c.Users),
				"projects": len(c.Projects),
				"tasks":    totalTasks,
			}
			if viper.GetBool("json") {
				return printJSON(summary)
			}
			fmt.Printf("Wrote dataset to %s: %d teams, %d users, %d projects, %d tasks\n",
				path, len(c.Teams), len(c.Users), len(c.Projects), totalTasks)
			return nil
		},
	}
	cmd.Flags().IntVar(&users, "users", 5000, "number of users to generate")
	cmd.Flags().Float64Var(&density, "density", 1.0, "task volume multiplier per project")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "generation profile YAML (defaults used when empty)")
	return cmd
}

func dashboardCmd() *cobra.Command {
	var (
		projectID  string
		teamID     string
		assigneeID string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Inspect a generated store (read-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.OpenReadOnly(viper.GetString("db"))
			if err != nil {
				// A missing store is a warning for the read side, not a failure.
				fmt.Println("warning:", err)
				return nil
			}
			defer conn.Close()

			r := repo.Repo{DB: conn}
			now := time.Now()
			rows, err := r.ListTaskRows(cmd.Context(), repo.TaskFilter{
				ProjectID:  projectID,
				TeamID:     teamID,
				AssigneeID: assigneeID,
				Limit:      limit,
			})
			if err != nil {
				return err
			}
			annotated := dashboard.Annotate(rows, now)
			metrics, err := r.ComputeMetrics(cmd.Context(), now)
			if err != nil {
				return err
			}

			if viper.GetBool("json") {
				return printJSON(map[string]any{"tasks": annotated, "metrics": metrics})
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Project", "Team", "Task", "Section", "Assignee", "Due Date", "Status"})
			for _, row := range annotated {
				assignee := "Unassigned"
				if row.AssigneeName != nil {
					assignee = *row.AssigneeName
				}
				tw.AppendRow(table.Row{
					row.ProjectName, row.TeamName, row.TaskName,
					strVal(row.SectionName), assignee, strVal(row.DueDate), row.Status,
				})
			}
			tw.Render()

			mw := table.NewWriter()
			mw.SetOutputMirror(os.Stdout)
			mw.AppendHeader(table.Row{"Total Users", "Total Tasks", "% Unassigned", "% Overdue", "% Completed"})
			mw.AppendRow(table.Row{
				metrics.TotalUsers, metrics.TotalTasks,
				fmt.Sprintf("%.1f%%", metrics.PctUnassigned),
				fmt.Sprintf("%.1f%%", metrics.PctOverdue),
				fmt.Sprintf("%.1f%%", metrics.PctCompleted),
			})
			mw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "filter by project id")
	cmd.Flags().StringVar(&teamID, "team", "", "filter by team id")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "filter by assignee id")
	cmd.Flags().IntVar(&limit, "limit", 50, "max tasks to display")
	return cmd
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute dataset invariants and report violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.OpenReadOnly(viper.GetString("db"))
			if err != nil {
				return err
			}
			defer conn.Close()

			r := repo.Repo{DB: conn}
			checks, err := r.VerifyIntegrity(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				if err := printJSON(checks); err != nil {
					return err
				}
			} else {
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Check", "Violations"})
				for _, c := range checks {
					tw.AppendRow(table.Row{c.Name, c.Violations})
				}
				tw.Render()
			}
			for _, c := range checks {
				if c.Violations > 0 {
					return fmt.Errorf("integrity check failed: %s (%d violations)", c.Name, c.Violations)
				}
			}
			return nil
		},
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only explorer API",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := db.OpenReadOnly(viper.GetString("db"))
			if err != nil {
				return err
			}
			defer conn.Close()

			handler, err := server.New(server.Config{
				Repo:     repo.Repo{DB: conn},
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: os.Getenv("WORKSIM_JWT_SECRET")},
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Worksim explorer on http://%s%s (OpenAPI at %s/openapi.json)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if level == "" {
		level = "info"
	}
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zcfg.Build()
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func strVal(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
