// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package dataset

import (
	"slices"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// groceries is the default synthetic catalog.
var groceries = []recommend.Item{
	"milk", "bread", "rice", "beans", "sugar", "salt", "coffee", "cooking oil", "butter", "cheese",
	"ham", "mortadella", "yogurt", "juice", "soda", "beer", "wine", "water",
	"chocolate", "cookies", "crackers", "soap", "shampoo", "conditioner", "toothpaste",
	"toilet paper", "chicken", "beef", "fish", "eggs", "carrot", "potato", "tomato",
	"lettuce", "apple", "banana", "orange", "lemon", "watermelon", "pineapple", "grape", "mango",
	"strawberry", "avocado", "onion", "garlic", "bell pepper", "cucumber", "zucchini", "eggplant",
	"broccoli", "cauliflower", "spinach", "chicory", "chayote", "beetroot", "cassava",
	"manioc", "flour", "yeast", "condensed milk", "heavy cream", "tomato sauce",
	"mayonnaise", "ketchup", "mustard", "olive oil", "vinegar", "cinnamon", "black pepper", "oregano",
}

// Catalog returns a copy of the grocery catalog.
func Catalog() []recommend.Item {
	return slices.Clone(groceries)
}
