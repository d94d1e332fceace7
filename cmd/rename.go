package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"renimg/pkg/imagefile"
	"renimg/pkg/preview"
	"renimg/pkg/session"
)

func runRename(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; later failures are not usage errors.
	cmd.SilenceUsage = true

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr())

	rootDir, err := validateAndResolvePath(args[0])
	if err != nil {
		return err
	}

	pattern, err := regexp.Compile(args[1])
	if err != nil {
		return fmt.Errorf("invalid file name pattern: %w", err)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	mode, err := preview.ParseMode(cfg.Preview)
	if err != nil {
		return err
	}

	imageViewer, err := preview.New(preview.Options{
		Mode:    mode,
		Command: cfg.Viewer,
		Out:     out,
	})
	if err != nil {
		return fmt.Errorf("failed to set up preview: %w", err)
	}

	s, err := session.New(session.Options{
		Dir:         rootDir,
		Pattern:     pattern,
		StrictNames: cfg.StrictNames,
		Decode:      imagefile.Options{AllowTruncated: !cfg.StrictDecode},
		Viewer:      imageViewer,
		In:          cmd.InOrStdin(),
		Out:         out,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Debug("starting", "dir", s.Root(), "pattern", pattern.String(), "preview", mode, "viewer", fmt.Sprintf("%T", imageViewer))

	result, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	for _, op := range result.Operations {
		if op.Skipped {
			logger.Debug("skipped", "name", op.OriginalName, "reason", op.SkipReason)
		}
	}

	printSummary(out,
		fmt.Sprintf("Total files:  %d", result.TotalFiles),
		fmt.Sprintf("Renamed:      %d", result.RenamedCount),
		fmt.Sprintf("Skipped:      %d", result.SkippedCount),
	)
	fmt.Fprintln(out, "All available image files renamed!")

	return nil
}
