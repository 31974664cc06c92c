package menu

import (
	"golang.org/x/text/currency"

	"github.com/qikao/ordering/internal/money"
)

// Default returns the built-in Qikao catalog, used when no catalog
// file is configured. Prices are in KES.
func Default() *Catalog {
	kes := currency.MustParseISO("KES")
	p := func(amount string) money.Money { return money.New(amount, kes) }

	items := []Item{
		{ID: "1", Name: "Breakfast Combo 1", Description: "Sausage, Smocha, Normal Fries and Chai Moto", Price: p("230"), Image: "chai-moto.jpg", Category: "breakfast"},
		{ID: "2", Name: "Breakfast Combo 2", Description: "2 Sausages, Mandazi, Normal Fries and Smocha", Price: p("250"), Image: "mandazi.jpg", Category: "breakfast"},
		{ID: "3", Name: "Coffee", Description: "Freshly brewed hot coffee.", Price: p("350"), Image: "coffee.jpg", Category: "breakfast"},
		{ID: "4", Name: "Burger", Description: "Beef burger served with lettuce and sauce.", Price: p("700"), Image: "burger.jpg", Category: "breakfast"},
		{ID: "5", Name: "Smokie", Description: "Delicious grilled smokie sausage.", Price: p("100"), Image: "smokie.jpg", Category: "snacks"},
		{ID: "6", Name: "Smocha", Description: "Smokie wrapped in chapati with sauce.", Price: p("200"), Image: "smocha.jpeg", Category: "snacks"},
		{ID: "7", Name: "Sausage", Description: "Crispy fried sausage.", Price: p("150"), Image: "sausage.jpg", Category: "snacks"},
		{ID: "8", Name: "Samosa", Description: "Crispy fried pastry stuffed with spiced beef.", Price: p("120"), Image: "samosa.jpg", Category: "snacks"},
		{ID: "9", Name: "Boiled Eggs", Description: "Two perfectly boiled eggs.", Price: p("100"), Image: "boiled-eggs.jpg", Category: "snacks"},
		{ID: "10", Name: "Bhajia", Description: "Crispy fried potato slices.", Price: p("250"), Image: "bhajia.jpg", Category: "snacks"},
		{ID: "11", Name: "Spicy Noodles", Description: "Stir-fried spicy noodles with vegetables.", Price: p("600"), Image: "spicy-noodles.jpg", Category: "lunch"},
		{ID: "12", Name: "Chips Masala", Description: "Fries tossed in masala and tomato sauce.", Price: p("400"), Image: "chips-masala.jpg", Category: "lunch"},
		{ID: "13", Name: "Normal Fries", Description: "Crispy golden fries with salt.", Price: p("300"), Image: "normal-fries.jpg", Category: "lunch"},
		{ID: "14", Name: "Pilau", Description: "Kenyan spiced rice with beef.", Price: p("700"), Image: "pilau.jpg", Category: "lunch"},
		{ID: "15", Name: "Mshikaki", Description: "Grilled beef skewers with spice.", Price: p("500"), Image: "mshikaki.jpg", Category: "lunch"},
		{ID: "16", Name: "BBQ", Description: "Assorted grilled barbecue platter.", Price: p("800"), Image: "bbq.jpg", Category: "lunch"},
		{ID: "17", Name: "BBQ Chicken", Description: "Marinated BBQ chicken pieces.", Price: p("700"), Image: "bbq-chicken.jpg", Category: "lunch"},
		{ID: "18", Name: "Plain Rice", Description: "Steamed white rice.", Price: p("250"), Image: "plain.jpg", Category: "lunch"},
		{ID: "19", Name: "Ugali with Fish", Description: "Traditional ugali served with fried fish.", Price: p("900"), Image: "ugali-fish.jpg", Category: "supper"},
		{ID: "20", Name: "Ugali with Mboga", Description: "Ugali served with sautéed greens.", Price: p("500"), Image: "ugali-mboga.jpg", Category: "supper"},
		{ID: "21", Name: "Grilled Meat", Description: "Perfectly grilled beef cuts.", Price: p("1000"), Image: "grilled-meat.jpg", Category: "supper"},
		{ID: "22", Name: "BBQ Chicken Special", Description: "Exclusive BBQ chicken recipe.", Price: p("1000"), Image: "bbq-chicken.jpg", Category: "specials"},
		{ID: "23", Name: "Soda", Description: "Chilled bottled soda.", Price: p("150"), Image: "soda.jpg", Category: "drinks"},
		{ID: "24", Name: "Pilau Offer", Description: "Discounted pilau meal offer.", Price: p("450"), Image: "pilau.jpg", Category: "special-offer"},
	}

	c, err := NewCatalog(items)
	if err != nil {
		// Built-in data; a failure here is a programming error.
		panic(err)
	}
	return c
}
