// Command replay streams recorded pose frames through the form analysis
// engine and prints a per-frame score and a session summary.
//
// Input is JSON lines, one analyze message per line:
//
//	{"type":"analyze","landmarks":[...33 points...],"worldLandmarks":[...]}
package main

import (
	"ProjectPoseForm/internal/api/analysis"
	analysisService "ProjectPoseForm/internal/api/analysis/service"
	"ProjectPoseForm/internal/config"
	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/pkg/evaluator"
	"ProjectPoseForm/pkg/log"
	websocketPkg "ProjectPoseForm/pkg/websocket"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errIgnored = errors.New("message ignored by the analysis engine")

// analyzeFunc scores one raw analyze message.
type analyzeFunc func(ctx context.Context, raw []byte) (*entity.FormAnalysisResult, error)

type summary struct {
	Frames   int
	Analyzed int
	Failed   int
	Skipped  int
	Total    float64
	Min      float64
	Issues   map[string]int
}

func (s summary) MeanScore() float64 {
	if s.Analyzed == 0 {
		return 0
	}
	return s.Total / float64(s.Analyzed)
}

type report struct {
	Frames    int            `json:"frames" yaml:"frames"`
	Analyzed  int            `json:"analyzed" yaml:"analyzed"`
	Failed    int            `json:"failed" yaml:"failed"`
	Skipped   int            `json:"skipped" yaml:"skipped"`
	MeanScore float64        `json:"meanScore" yaml:"mean_score"`
	MinScore  float64        `json:"minScore" yaml:"min_score"`
	Issues    map[string]int `json:"issues" yaml:"issues"`
}

func (s summary) report() report {
	return report{
		Frames:    s.Frames,
		Analyzed:  s.Analyzed,
		Failed:    s.Failed,
		Skipped:   s.Skipped,
		MeanScore: s.MeanScore(),
		MinScore:  s.Min,
		Issues:    s.Issues,
	}
}

func writeSummary(w io.Writer, s summary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.report()); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s.report())
	case "text", "":
		fmt.Fprintf(w, "frames=%d analyzed=%d failed=%d skipped=%d mean=%.1f min=%.1f\n",
			s.Frames, s.Analyzed, s.Failed, s.Skipped, s.MeanScore(), s.Min)

		issues := make([]string, 0, len(s.Issues))
		for issue := range s.Issues {
			issues = append(issues, issue)
		}
		sort.Strings(issues)
		for _, issue := range issues {
			fmt.Fprintf(w, "  %3d  %s\n", s.Issues[issue], issue)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		url    string
		local  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "replay <frames.jsonl>",
		Short: "Replay recorded pose frames through the form analysis engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewLogger()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open frames: %w", err)
			}
			defer f.Close()

			analyze, closeFn, err := newAnalyzer(url, local, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := replay(cmd.Context(), f, analyze, logger)
			if err != nil {
				return err
			}

			return writeSummary(cmd.OutOrStdout(), s, format)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Analysis WebSocket URL (default $AI_FORM_ANALYSIS_URL)")
	cmd.Flags().BoolVar(&local, "local", false, "Evaluate in-process instead of over WebSocket")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Summary format: text, yaml or json")

	return cmd
}

func newAnalyzer(url string, local bool, logger *logrus.Logger) (analyzeFunc, func(), error) {
	if local {
		svc := analysisService.NewAnalysisService(logger, config.NewValidator(), evaluator.New(), analysisService.Config{})
		return func(ctx context.Context, raw []byte) (*entity.FormAnalysisResult, error) {
			resp, ok := svc.Handle(ctx, raw)
			if !ok {
				return nil, errIgnored
			}
			if resp.IsFailure() {
				return nil, &websocketPkg.AnalysisError{Failure: *resp.Failure}
			}
			return resp.Result, nil
		}, func() {}, nil
	}

	client, err := websocketPkg.NewFormClient(url, logger)
	if err != nil {
		return nil, nil, err
	}

	analyze := func(_ context.Context, raw []byte) (*entity.FormAnalysisResult, error) {
		var req analysis.AnalyzeRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("decode analyze request: %w", err)
		}
		return client.Analyze(req.Landmarks, req.WorldLandmarks)
	}

	return analyze, client.Close, nil
}

func replay(ctx context.Context, r io.Reader, analyze analyzeFunc, logger *logrus.Logger) (summary, error) {
	s := summary{Min: evaluator.MaxScore, Issues: map[string]int{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.Frames++

		msgType, err := analysis.MessageType(line)
		if err != nil {
			return s, fmt.Errorf("frame %d: %w", s.Frames, err)
		}

		// Same rule as the server: only analyze messages are answered.
		if msgType != analysis.MessageTypeAnalyze {
			s.Skipped++
			continue
		}

		result, err := analyze(ctx, line)
		if err != nil {
			s.Failed++
			logger.WithFields(log.Fields{
				"frame": s.Frames,
				"error": err.Error(),
			}).Warn("Frame analysis failed")
			continue
		}

		s.Analyzed++
		s.Total += result.FormScore
		if result.FormScore < s.Min {
			s.Min = result.FormScore
		}
		for _, issue := range result.Issues {
			s.Issues[issue]++
		}

		logger.WithFields(log.Fields{
			"frame":      s.Frames,
			"form_score": result.FormScore,
			"issues":     result.Issues,
		}).Info("Frame analyzed")
	}

	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("read frames: %w", err)
	}

	if s.Analyzed == 0 {
		s.Min = 0
	}

	return s, nil
}
