package service

import (
	"context"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
)

// Recipes synchronizes the recipe box.
type Recipes struct {
	*List[domain.Recipe, domain.RecipeFields]
}

func NewRecipes(remote repository.Collection[domain.Recipe], opts ...Option) *Recipes {
	return &Recipes{List: NewList[domain.Recipe, domain.RecipeFields]("recipes", remote, opts...)}
}

// Add creates a recipe, defaulting the category to Dinner.
func (r *Recipes) Add(ctx context.Context, f domain.RecipeFields) (domain.Recipe, error) {
	if domain.IsBlank(f.Name) {
		return domain.Recipe{}, &SyncError{Op: OpCreate, Reason: ReasonValidation, Err: ErrBlankField}
	}
	if f.Category == "" {
		f.Category = domain.DefaultCategory
	}
	return r.List.Create(ctx, f)
}

func (r *Recipes) Update(ctx context.Context, id domain.ID, f domain.RecipeFields) (domain.Recipe, error) {
	return r.List.Update(ctx, id, f)
}

func (r *Recipes) BeginEdit(rec domain.Recipe) error {
	return r.List.BeginEdit(rec.ID, rec.Fields())
}

func (r *Recipes) SaveEdit(ctx context.Context) (domain.Recipe, error) {
	return r.List.SaveEdit(ctx, func(d domain.RecipeFields) any { return d })
}
