package catalog

var tamilNaduIngredients = []Ingredient{
	// Vegetables
	{Name: "Tomato", Emoji: "🍅", Category: CategoryVegetables},
	{Name: "Onion", Emoji: "🧅", Category: CategoryVegetables},
	{Name: "Brinjal", Emoji: "🍆", Category: CategoryVegetables},
	{Name: "Drumstick", Emoji: "🌿", Category: CategoryVegetables},
	{Name: "Curry Leaves", Emoji: "🍃", Category: CategoryVegetables},
	{Name: "Garlic", Emoji: "🧄", Category: CategoryVegetables},
	{Name: "Ginger", Emoji: "🍠", Category: CategoryVegetables},
	{Name: "Potato", Emoji: "🥔", Category: CategoryVegetables},
	{Name: "Carrot", Emoji: "🥕", Category: CategoryVegetables},
	{Name: "Green Chilli", Emoji: "🌶️", Category: CategoryVegetables},
	{Name: "Coriander Leaves", Emoji: "🌿", Category: CategoryVegetables},
	{Name: "Okra", Emoji: "🌿", Category: CategoryVegetables},
	{Name: "Cabbage", Emoji: "🥬", Category: CategoryVegetables},
	{Name: "Cauliflower", Emoji: "🥦", Category: CategoryVegetables},
	{Name: "Bell Pepper", Emoji: "🫑", Category: CategoryVegetables},
	{Name: "Ash Gourd", Emoji: "🥒", Category: CategoryVegetables},
	{Name: "Snake Gourd", Emoji: "🥒", Category: CategoryVegetables},
	{Name: "Cluster Beans", Emoji: "🌱", Category: CategoryVegetables},
	{Name: "Raw Banana", Emoji: "🍌", Category: CategoryVegetables},

	// Staples
	{Name: "Rice", Emoji: "🍚", Category: CategoryStaples},
	{Name: "Ragi", Emoji: "🌾", Category: CategoryStaples},
	{Name: "Wheat", Emoji: "🌾", Category: CategoryStaples},
	{Name: "Tamarind", Emoji: "🌰", Category: CategoryStaples},
	{Name: "Coconut", Emoji: "🥥", Category: CategoryStaples},
	{Name: "Jaggery", Emoji: "🟤", Category: CategoryStaples},
	{Name: "Kambu (Pearl Millet)", Emoji: "🌾", Category: CategoryStaples},

	// Dals & Proteins
	{Name: "Toor Dal", Emoji: "🌰", Category: CategoryProteins},
	{Name: "Chana Dal", Emoji: "🌰", Category: CategoryProteins},
	{Name: "Moong Dal", Emoji: "🌰", Category: CategoryProteins},
	{Name: "Urad Dal", Emoji: "🌰", Category: CategoryProteins},
	{Name: "Paneer", Emoji: "🧀", Category: CategoryProteins},
	{Name: "Tofu", Emoji: "🍢", Category: CategoryProteins},
	{Name: "Egg", Emoji: "🥚", Category: CategoryProteins},
	{Name: "Chicken", Emoji: "🍗", Category: CategoryProteins},
	{Name: "Fish", Emoji: "🐟", Category: CategoryProteins},
	{Name: "Mutton", Emoji: "🐐", Category: CategoryProteins},
	{Name: "Prawns", Emoji: "🦐", Category: CategoryProteins},
	{Name: "Crab", Emoji: "🦀", Category: CategoryProteins},
	{Name: "Black Eyed Peas", Emoji: "🫘", Category: CategoryProteins},
	{Name: "Bengal Gram", Emoji: "🌰", Category: CategoryProteins},
	{Name: "Curd", Emoji: "🥛", Category: CategoryProteins},

	// Spices
	{Name: "Mustard Seeds", Emoji: "⚫", Category: CategorySpices},
	{Name: "Fenugreek", Emoji: "🌿", Category: CategorySpices},
	{Name: "Turmeric Powder", Emoji: "💛", Category: CategorySpices},
	{Name: "Chilli Powder", Emoji: "🌶️", Category: CategorySpices},
	{Name: "Coriander Seeds", Emoji: "🟤", Category: CategorySpices},
	{Name: "Cumin Seeds", Emoji: "🟤", Category: CategorySpices},
	{Name: "Black Pepper", Emoji: "⚫", Category: CategorySpices},
	{Name: "Cinnamon", Emoji: "🪵", Category: CategorySpices},
	{Name: "Cardamom", Emoji: "🌿", Category: CategorySpices},
	{Name: "Cloves", Emoji: "🌿", Category: CategorySpices},
	{Name: "Asafoetida", Emoji: "🧂", Category: CategorySpices},
	{Name: "Dry Red Chilli", Emoji: "🌶️", Category: CategorySpices},
	{Name: "Fennel Seeds", Emoji: "🌿", Category: CategorySpices},

	// Oils
	{Name: "Sesame Oil", Emoji: "💧", Category: CategoryOils},
	{Name: "Coconut Oil", Emoji: "💧", Category: CategoryOils},
	{Name: "Groundnut Oil", Emoji: "💧", Category: CategoryOils},
	{Name: "Ghee", Emoji: "🧈", Category: CategoryOils},
}
