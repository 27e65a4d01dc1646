package models

// Category classifies an expense. Top-level categories group the
// subcategories listed in Subcategories.
type Category string

const (
	CategoryNone Category = "None"

	CategoryHousing     Category = "Housing"
	CategoryUtilities   Category = "Utilities"
	CategoryElectricity Category = "Electricity"
	CategoryInternet    Category = "Internet"
	CategoryWater       Category = "Water"
	CategoryRecycling   Category = "Recycling"
	CategoryGarbage     Category = "Garbage"
	CategoryRepair      Category = "Repair"
	CategoryCleaning    Category = "Cleaning"
	CategoryRent        Category = "Rent"
	CategoryTax         Category = "Tax"
	CategoryFurnishing  Category = "Furnishing"
	CategorySecurity    Category = "Security"

	CategoryFoodDrink  Category = "FoodDrink"
	CategoryFastFood   Category = "FastFood"
	CategoryCoffee     Category = "Coffee"
	CategoryRestaurant Category = "Restaurant"
	CategoryGroceries  Category = "Groceries"

	CategoryTransportTravel Category = "TransportTravel"
	CategoryTransportation  Category = "Transportation"
	CategoryTaxi            Category = "Taxi"
	CategoryFlight          Category = "Flight"
	CategoryPublic          Category = "Public"
	CategoryCar             Category = "Car"
	CategoryParking         Category = "Parking"
	CategoryTolls           Category = "Tolls"
	CategoryFee             Category = "Fee"

	CategoryGifts Category = "Gifts"

	CategoryShopping   Category = "Shopping"
	CategoryTechnology Category = "Technology"
	CategoryClothes    Category = "Clothes"
	CategoryShoes      Category = "Shoes"

	CategoryEntertainment Category = "Entertainment"
	CategoryMovie         Category = "Movie"
	CategoryConcert       Category = "Concert"
	CategoryBooks         Category = "Books"
	CategorySportEvent    Category = "SportEvent"
	CategoryHobby         Category = "Hobby"

	CategoryHealthBeauty Category = "HealthBeauty"
	CategoryHealth       Category = "Health"
	CategoryBeauty       Category = "Beauty"
	CategorySport        Category = "Sport"

	CategoryMoneyTransfer Category = "MoneyTransfer"
	CategoryCash          Category = "Cash"
	CategoryBankTransfer  Category = "BankTransfer"
	CategoryCrypto        Category = "Crypto"
)

// Subcategories maps each top-level category to its members (itself included).
var Subcategories = map[Category][]Category{
	CategoryHousing: {
		CategoryHousing, CategoryUtilities, CategoryElectricity, CategoryInternet,
		CategoryWater, CategoryRecycling, CategoryGarbage, CategoryRepair,
		CategoryCleaning, CategoryRent, CategoryTax, CategoryFurnishing, CategorySecurity,
	},
	CategoryFoodDrink: {
		CategoryFoodDrink, CategoryFastFood, CategoryCoffee, CategoryRestaurant, CategoryGroceries,
	},
	CategoryTransportTravel: {
		CategoryTransportTravel, CategoryTransportation, CategoryTaxi, CategoryFlight,
		CategoryPublic, CategoryCar, CategoryParking, CategoryTolls, CategoryFee,
	},
	CategoryShopping:      {CategoryShopping, CategoryTechnology, CategoryClothes, CategoryShoes},
	CategoryEntertainment: {CategoryEntertainment, CategoryMovie, CategoryConcert, CategoryBooks, CategorySportEvent, CategoryHobby},
	CategoryMoneyTransfer: {CategoryMoneyTransfer, CategoryCash, CategoryBankTransfer, CategoryCrypto},
	CategoryHealthBeauty:  {CategoryHealthBeauty, CategoryHealth, CategoryBeauty},
	CategorySport:         {CategorySport},
	CategoryGifts:         {CategoryGifts},
}

// ParseCategory returns the category for s. Unknown or empty values map to
// CategoryNone so that records written by newer clients still load.
func ParseCategory(s string) Category {
	c := Category(s)
	if c == CategoryNone {
		return c
	}
	for _, members := range Subcategories {
		for _, m := range members {
			if m == c {
				return c
			}
		}
	}
	return CategoryNone
}
