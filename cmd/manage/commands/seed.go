package commands

import (
	"fmt"

	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the stock blog categories and tags",
	Long: `Insert the categories of blog.categories and the tags of blog.tags.
Entries whose slug already exists are skipped, so seeding twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db := database.GetDB()
		categories := repository.NewCategoryRepository(db)
		tags := repository.NewTagRepository(db)
		blog := service.NewBlogService(categories, tags,
			repository.NewPostRepository(db), repository.NewCommentRepository(db),
			service.BlogOptions{Categories: cfg.Blog.Categories})

		var created, skipped int
		for _, preset := range cfg.Blog.Categories {
			exists, err := categories.SlugExists(ctx, service.Slugify(preset.Name))
			if err != nil {
				return err
			}
			if exists {
				skipped++
				continue
			}
			name := preset.Name
			if _, err := blog.CreateCategory(ctx, service.CategoryInput{Name: &name}); err != nil {
				return fmt.Errorf("create category %q: %w", preset.Name, err)
			}
			created++
		}

		for _, name := range cfg.Blog.Tags {
			exists, err := tags.SlugExists(ctx, service.Slugify(name))
			if err != nil {
				return err
			}
			if exists {
				skipped++
				continue
			}
			if _, err := blog.CreateTag(ctx, service.TagInput{Name: name}); err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
			created++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d, skipped %d existing\n", created, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
