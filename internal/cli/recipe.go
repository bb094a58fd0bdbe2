package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/listsync/internal/config"
	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/service"
	"github.com/Tomlord1122/listsync/internal/tui"
)

// NewRecipeCommand creates the recipe command group.
func NewRecipeCommand(opts *RootOptions) *cobra.Command {
	a, cmd := newAppCommand(opts, config.AppRecipe, "recipe", "Keep a recipe box")

	open := func(interactive bool) (*service.Recipes, error) {
		logger, svcOpts := a.serviceOptions(interactive)
		remote, err := openCollection[domain.Recipe](a, logger)
		if err != nil {
			return nil, err
		}
		return service.NewRecipes(remote, svcOpts...), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recipes",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := open(false)
				if err != nil {
					return err
				}
				if err := loadItems(cmd.Context(), "recipes", r.Load); err != nil {
					return err
				}
				recipes := r.Items()
				return a.output(cmd).Success(recipes, func(w io.Writer) error {
					return renderRecipes(w, recipes)
				})
			},
		},
		newRecipeAddCommand(a, open),
		newRecipeEditCommand(a, open),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a recipe",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := open(false)
				if err != nil {
					return err
				}
				id := domain.ID(args[0])
				if err := r.Remove(cmd.Context(), id); err != nil {
					return operationError("cannot delete recipe", err)
				}
				return a.output(cmd).Success(map[string]domain.ID{"id": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted recipe %s\n", id)
					return err
				})
			},
		},
		a.uiCommand(func(cmd *cobra.Command) (tui.Adapter, error) {
			r, err := open(true)
			if err != nil {
				return nil, err
			}
			return tui.RecipeAdapter(r), nil
		}),
	)
	return cmd
}

func newRecipeAddCommand(a *appCommand, open func(bool) (*service.Recipes, error)) *cobra.Command {
	var category, ingredients string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a recipe",
		Long:  "Add a recipe. The category defaults to Dinner.",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.RecipeFields{Name: joinArgs(args), Ingredients: ingredients}
			var err error
			if f.Category, err = choiceFlag(cmd, "category", category, domain.Categories, ""); err != nil {
				return err
			}

			r, err := open(false)
			if err != nil {
				return err
			}
			recipe, err := r.Add(cmd.Context(), f)
			if err != nil {
				return operationError("cannot add recipe", err)
			}
			return a.output(cmd).Success(recipe, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added recipe %s: %s (%s)\n", recipe.ID, recipe.Name, recipe.Category)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category: Dinner, Lunch, Breakfast or Dessert")
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "ingredients, free text")
	return cmd
}

func newRecipeEditCommand(a *appCommand, open func(bool) (*service.Recipes, error)) *cobra.Command {
	var name, category, ingredients string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a recipe",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := open(false)
			if err != nil {
				return err
			}
			if err := loadItems(cmd.Context(), "recipes", r.Load); err != nil {
				return err
			}
			current, ok := r.Find(domain.ID(args[0]))
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("recipe %s not found", args[0]))
			}
			if err := r.BeginEdit(current); err != nil {
				return operationError("cannot edit recipe", err)
			}

			draft := current.Fields()
			if cmd.Flags().Changed("name") {
				draft.Name = name
			}
			if cmd.Flags().Changed("ingredients") {
				draft.Ingredients = ingredients
			}
			if draft.Category, err = choiceFlag(cmd, "category", category, domain.Categories, draft.Category); err != nil {
				return err
			}
			if err := r.SetDraft(draft); err != nil {
				return operationError("cannot edit recipe", err)
			}

			recipe, err := r.SaveEdit(cmd.Context())
			if err != nil {
				return operationError("cannot update recipe", err)
			}
			return a.output(cmd).Success(recipe, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated recipe %s\n", recipe.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "new ingredients")
	return cmd
}
