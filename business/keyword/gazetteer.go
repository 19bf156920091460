package keyword

// Static gazetteers for brand and category detection. Matching is done on
// normalized tokens; iteration order over the token stream decides which
// entry wins, so lookups can live in plain maps.

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {}, "is": {}, "on": {}, "with": {}, "as": {},
	"by": {}, "at": {}, "from": {}, "that": {}, "this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {}, "was": {},
	"will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {}, "you": {}, "we": {}, "our": {},
	"new": {}, "used": {}, "sale": {}, "sell": {}, "selling": {}, "buy": {}, "cheap": {}, "good": {}, "very": {},
	"like": {}, "its": {}, "my": {}, "per": {}, "only": {},
}

// brandGazetteer maps a lowercase token to the canonical brand name.
// Product-line tokens (iphone, macbook, galaxy) resolve to their maker.
var brandGazetteer = map[string]string{
	"apple":      "Apple",
	"iphone":     "Apple",
	"ipad":       "Apple",
	"macbook":    "Apple",
	"airpods":    "Apple",
	"samsung":    "Samsung",
	"galaxy":     "Samsung",
	"dell":       "Dell",
	"hp":         "HP",
	"lenovo":     "Lenovo",
	"thinkpad":   "Lenovo",
	"asus":       "Asus",
	"acer":       "Acer",
	"sony":       "Sony",
	"playstation": "Sony",
	"xiaomi":     "Xiaomi",
	"redmi":      "Xiaomi",
	"oppo":       "Oppo",
	"vivo":       "Vivo",
	"huawei":     "Huawei",
	"honda":      "Honda",
	"toyota":     "Toyota",
	"yamaha":     "Yamaha",
	"suzuki":     "Suzuki",
	"ford":       "Ford",
	"bmw":        "BMW",
	"ikea":       "Ikea",
	"nike":       "Nike",
	"adidas":     "Adidas",
	"canon":      "Canon",
	"nikon":      "Nikon",
	"lg":         "LG",
	"bose":       "Bose",
	"jbl":        "JBL",
	"nintendo":   "Nintendo",
	"xbox":       "Microsoft",
	"microsoft":  "Microsoft",
}

// categoryKeywords maps a lowercase token to a marketplace category.
var categoryKeywords = map[string]string{
	"laptop":      "Electronics",
	"notebook":    "Electronics",
	"computer":    "Electronics",
	"pc":          "Electronics",
	"desktop":     "Electronics",
	"monitor":     "Electronics",
	"keyboard":    "Electronics",
	"mouse":       "Electronics",
	"phone":       "Electronics",
	"smartphone":  "Electronics",
	"iphone":      "Electronics",
	"ipad":        "Electronics",
	"tablet":      "Electronics",
	"macbook":     "Electronics",
	"headphone":   "Electronics",
	"headphones":  "Electronics",
	"earbuds":     "Electronics",
	"speaker":     "Electronics",
	"camera":      "Electronics",
	"tv":          "Electronics",
	"television":  "Electronics",
	"console":     "Electronics",
	"playstation": "Electronics",
	"xbox":        "Electronics",
	"gpu":         "Electronics",
	"rtx":         "Electronics",
	"charger":     "Electronics",
	"sofa":        "Furniture",
	"couch":       "Furniture",
	"table":       "Furniture",
	"desk":        "Furniture",
	"chair":       "Furniture",
	"bed":         "Furniture",
	"mattress":    "Furniture",
	"wardrobe":    "Furniture",
	"shelf":       "Furniture",
	"bookshelf":   "Furniture",
	"cabinet":     "Furniture",
	"dresser":     "Furniture",
	"car":         "Vehicles",
	"motorcycle":  "Vehicles",
	"motorbike":   "Vehicles",
	"scooter":     "Vehicles",
	"bicycle":     "Vehicles",
	"bike":        "Vehicles",
	"sedan":       "Vehicles",
	"suv":         "Vehicles",
	"truck":       "Vehicles",
	"shirt":       "Fashion",
	"tshirt":      "Fashion",
	"jacket":      "Fashion",
	"dress":       "Fashion",
	"shoes":       "Fashion",
	"sneakers":    "Fashion",
	"jeans":       "Fashion",
	"watch":       "Fashion",
	"bag":         "Fashion",
	"handbag":     "Fashion",
	"stroller":    "Baby & Kids",
	"crib":        "Baby & Kids",
	"toy":         "Baby & Kids",
	"toys":        "Baby & Kids",
	"lego":        "Baby & Kids",
	"guitar":      "Hobbies",
	"piano":       "Hobbies",
	"drone":       "Hobbies",
	"book":        "Hobbies",
	"books":       "Hobbies",
	"fridge":      "Appliances",
	"refrigerator": "Appliances",
	"microwave":   "Appliances",
	"washer":      "Appliances",
	"oven":        "Appliances",
	"blender":     "Appliances",
	"vacuum":      "Appliances",
	"aircon":      "Appliances",
}
