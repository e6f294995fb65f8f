package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/guideline/internal/model"
)

var scheduleFile string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage and query the work schedule",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured schedule as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		cfg, err := env.Store.GetSchedule(cmd.Context())
		if err != nil {
			return err
		}
		if cfg == nil {
			fmt.Println("No schedule is configured yet.")
			return nil
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "marshal schedule")
		}
		fmt.Print(string(out))
		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the schedule from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scheduleFile == "" {
			return eris.New("--file is required")
		}

		data, err := os.ReadFile(scheduleFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", scheduleFile)
		}

		var schedCfg model.ScheduleConfig
		if err := yaml.Unmarshal(data, &schedCfg); err != nil {
			return eris.Wrapf(err, "parse %s", scheduleFile)
		}

		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.SetSchedule(cmd.Context(), schedCfg); err != nil {
			return err
		}
		zap.L().Info("schedule replaced",
			zap.Int("weekdays", len(schedCfg.Week)),
			zap.Int("holidays", len(schedCfg.Holidays)),
		)
		return nil
	},
}

var scheduleAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask about working hours, on-call windows or holidays",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		cfg, err := env.Store.GetSchedule(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(env.Schedule.Answer(cfg, strings.Join(args, " ")))
		return nil
	},
}

func init() {
	scheduleSetCmd.Flags().StringVar(&scheduleFile, "file", "", "YAML file with the schedule")
	scheduleCmd.AddCommand(scheduleShowCmd)
	scheduleCmd.AddCommand(scheduleSetCmd)
	scheduleCmd.AddCommand(scheduleAskCmd)
	rootCmd.AddCommand(scheduleCmd)
}
