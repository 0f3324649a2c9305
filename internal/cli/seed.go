package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pcdmanager/internal/model"
)

// DirectoryFile 目录初始化文件
type DirectoryFile struct {
	Tools []model.Tool `yaml:"tools"`
	Users []model.User `yaml:"users"`
}

// LoadDirectoryFile 读取 YAML 目录文件
func LoadDirectoryFile(path string) (*DirectoryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}
	var dir DirectoryFile
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("invalid directory file %s: %w", path, err)
	}
	for i, t := range dir.Tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool #%d has no name", i+1)
		}
	}
	for i, u := range dir.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("user #%d has no name", i+1)
		}
	}
	return &dir, nil
}

func (a *app) seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load tools and users from a YAML directory file",
		Long: `Load tools and users into the store. Entries with an id replace the stored row.

Example directory.yaml:
  tools:
    - id: 1
      name: BT151
      secondary_name: Bake Tool
  users:
    - id: 10
      name: Travis Winston
      active: true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := LoadDirectoryFile(file)
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			for i := range dir.Tools {
				if err := st.UpsertTool(ctx, &dir.Tools[i]); err != nil {
					return err
				}
			}
			for i := range dir.Users {
				if err := st.UpsertUser(ctx, &dir.Users[i]); err != nil {
					return err
				}
			}

			tools, users, err := st.DirectoryCounts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d tools and %d users (directory now %d tools, %d users)\n",
				len(dir.Tools), len(dir.Users), tools, users)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML directory file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
