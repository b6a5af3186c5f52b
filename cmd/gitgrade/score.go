package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thep200/gitgrade/internal/scoring"
)

type scoreFlags struct {
	format      string
	license     string
	description string
	pushedAt    string
}

// skipDirs không bao giờ được đưa vào listing (metadata của VCS)
var skipDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

func newScoreCmd(rf *rootFlags) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score <dir>",
		Short: "Score a local checkout without calling GitHub or an LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}
			meta := scoring.Metadata{}
			if cmd.Flags().Changed("license") {
				meta.License = &f.license
			}
			if cmd.Flags().Changed("description") {
				meta.Description = &f.description
			}
			if cmd.Flags().Changed("pushed-at") {
				meta.PushedAt = &f.pushedAt
			}

			files, readme, err := scanDir(args[0])
			if err != nil {
				return err
			}
			b := scoring.Scorer{}.Breakdown(meta, files, readme)
			return writeBreakdown(os.Stdout, f.format, useColor(rf.color, os.Stdout), args[0], b)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: text, json or yaml")
	flags.StringVar(&f.license, "license", "", "License identifier, counts as present when set")
	flags.StringVar(&f.description, "description", "", "Repository description")
	flags.StringVar(&f.pushedAt, "pushed-at", "", "Last push time, "+scoring.PushedAtLayout)
	return cmd
}

// scanDir trả về danh sách file (đường dẫn tương đối, dùng "/") và nội dung README ở thư mục gốc
func scanDir(root string) ([]string, string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	sort.Strings(files)

	readme := ""
	for _, f := range files {
		if !strings.Contains(f, "/") && strings.HasPrefix(strings.ToLower(f), "readme") {
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
			if err != nil {
				return nil, "", err
			}
			readme = strings.ToValidUTF8(string(data), "")
			break
		}
	}
	return files, readme, nil
}
