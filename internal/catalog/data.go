package catalog

// seedProducts is the base catalog. Derived fields are filled in by
// enhance when the snapshot is built.
var seedProducts = []Product{
	{
		ID:          1,
		Name:        "Air Runner Basic",
		Category:    CategorySports,
		Price:       30,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Affordable sports shoes for daily workout.",
	},
	{
		ID:          2,
		Name:        "Air Runner Pro",
		Category:    CategorySports,
		Price:       55,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Professional sports shoes for runners.",
	},
	{
		ID:          3,
		Name:        "Air Runner Elite",
		Category:    CategorySports,
		Price:       90,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Premium sports shoes with advanced grip.",
	},
	{
		ID:          4,
		Name:        "Classic Walk Basic",
		Category:    CategoryCasual,
		Price:       25,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Comfortable casual shoes for daily wear.",
	},
	{
		ID:          5,
		Name:        "Classic Walk Plus",
		Category:    CategoryCasual,
		Price:       50,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Stylish casual shoes with extra comfort.",
	},
	{
		ID:          6,
		Name:        "Classic Walk Premium",
		Category:    CategoryCasual,
		Price:       85,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Premium casual shoes with modern design.",
	},
	{
		ID:          7,
		Name:        "Royal Leather Basic",
		Category:    CategoryFormal,
		Price:       40,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Formal shoes for office and meetings.",
	},
	{
		ID:          8,
		Name:        "Royal Leather Pro",
		Category:    CategoryFormal,
		Price:       65,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Premium formal shoes with classic finish.",
	},
	{
		ID:          9,
		Name:        "Royal Leather Elite",
		Category:    CategoryFormal,
		Price:       95,
		Sizes:       []int{6, 7, 8, 9, 10},
		Description: "Luxury formal shoes for special occasions.",
	},
}
