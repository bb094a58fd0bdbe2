package domain

// Categories lists the recipe categories in display order.
var Categories = []string{"Dinner", "Lunch", "Breakfast", "Dessert"}

// DefaultCategory is preselected for new recipes.
const DefaultCategory = "Dinner"

type Recipe struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Ingredients string `json:"ingredients"`
}

func (r Recipe) RecordID() ID { return r.ID }

func (r Recipe) Fields() RecipeFields {
	return RecipeFields{Name: r.Name, Category: r.Category, Ingredients: r.Ingredients}
}

// RecipeFields is both the create/update body and the edit draft of a Recipe.
type RecipeFields struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Ingredients string `json:"ingredients"`
}
