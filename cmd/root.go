package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
)

var (
	previewMode  string
	viewer       string
	strictNames  bool
	strictDecode bool
	verbose      bool
	configPath   string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renimg <directory> <file_name_pattern>",
		Short: "Interactively rename photos to a dated, descriptive name",
		Long: `renimg walks the images of a directory whose names match a regular
expression, shows each one and asks for a short description. The file is
then renamed to "<YYYYMMDD> - <description><ext>".

The date comes from the EXIF capture date of .jpg/.JPG files. Other
formats (.png, .tiff, .bmp) ask for it instead. A JPEG without a capture
date gets "_" as its date.

Leave the description empty to keep a file as it is. When the new name is
already taken you are asked for another description; an existing file is
never overwritten.

Examples:
  # Rename camera files such as IMG_20180603_144921372.jpg
  renimg ~/Pictures/2018 'IMG_\d+_.+'

  # Show images in an external viewer
  renimg --preview=external --viewer='feh --scale-down' ~/Pictures 'DSC'

  # Only prompt, do not display images
  renimg --preview=none ./photos '.'

Configuration:
  Defaults for the flags may be set in $XDG_CONFIG_HOME/renimg/config.toml
  with the keys preview, viewer, strict_names and strict_decode.

Safety:
  Only files directly inside the given directory are renamed.
  Subdirectories are neither renamed nor descended into.`,
		Args: validateArgs,
		RunE: runRename,
	}

	cmd.Flags().StringVar(&previewMode, "preview", "auto", "How images are shown: auto, inline, external or none")
	cmd.Flags().StringVar(&viewer, "viewer", "", "External viewer command; the image path is appended")
	cmd.Flags().BoolVar(&strictNames, "strict-names", false, "Strip every illegal file name character individually")
	cmd.Flags().BoolVar(&strictDecode, "strict-decode", false, "Reject truncated images instead of showing a blank canvas")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/renimg/config.toml)")

	return cmd
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}

	if _, err := regexp.Compile(args[1]); err != nil {
		return fmt.Errorf("invalid file name pattern: %w", err)
	}

	return nil
}
