package generator

// vendor is one entry in the synthetic vendor pool
type vendor struct {
	ID      string
	Name    string
	Country string
}

// product is one entry in the synthetic product catalog with a realistic
// unit price range.
type product struct {
	Code     string
	Name     string
	PriceMin float64
	PriceMax float64
}

var vendorPool = []vendor{
	{"V-1001", "Acme Supplies Ltd", "USA"},
	{"V-1002", "Global Tech Solutions", "UK"},
	{"V-1003", "Premier Office Equipment", "Canada"},
	{"V-1004", "Industrial Components Inc", "Germany"},
	{"V-1005", "Swift Logistics Co", "Singapore"},
	{"V-1006", "Quality Manufacturing", "Japan"},
	{"V-1007", "Euro Parts Distributors", "France"},
	{"V-1008", "Pacific Traders", "Australia"},
	{"V-1009", "Nordic Supplies AB", "Sweden"},
	{"V-1010", "Atlas Equipment Corp", "USA"},
}

var productPool = []product{
	{"IT-001", "Dell Laptop XPS 15", 1200, 1800},
	{"IT-002", "HP Desktop Workstation", 800, 1500},
	{"IT-003", "Cisco Network Switch 24-Port", 600, 900},
	{"IT-004", "Samsung 27\" Monitor", 300, 500},
	{"IT-005", "Logitech Wireless Keyboard & Mouse", 50, 100},
	{"OS-001", "Ergonomic Office Chair", 250, 450},
	{"OS-002", "Standing Desk Adjustable", 400, 700},
	{"OS-003", "Printer Paper A4 (5 Reams)", 25, 40},
	{"OS-004", "Whiteboard 6x4 ft", 100, 200},
	{"OS-005", "File Cabinet 4-Drawer", 150, 300},
	{"IN-001", "Hydraulic Pump Assembly", 2000, 3500},
	{"IN-002", "Steel Beam 10m I-Section", 500, 800},
	{"IN-003", "Safety Harness Kit", 150, 250},
	{"IN-004", "Industrial LED Lighting 100W", 80, 150},
	{"IN-005", "Air Compressor 50L", 400, 700},
}

var departmentPool = []string{
	"IT", "Operations", "Facilities", "Manufacturing", "Procurement", "Finance",
}

var warehousePool = []string{
	"WH-EAST", "WH-WEST", "WH-CENTRAL", "WH-NORTH", "WH-SOUTH",
}

var paymentTermsPool = []string{
	"Net 30", "Net 45", "Net 60", "Due on Receipt",
}

var personPool = []string{
	"Sarah Mitchell", "James Okafor", "Priya Raman", "Daniel Koch",
	"Mei-Ling Chen", "Tomás Herrera", "Anna Lindqvist", "Robert Hayes",
	"Fatima Al-Rashid", "Kenji Watanabe", "Laura Bennett", "Marcus Webb",
}

var addressPool = []string{
	"1420 Commerce Blvd, Suite 300, Dayton, OH 45402",
	"88 Harbor Front Rd, Singapore 098632",
	"Industriestrasse 14, 70565 Stuttgart",
	"250 King Street West, Toronto, ON M5V 1J5",
	"7 Riverside Business Park, Leeds LS10 1DX",
	"3900 Logistics Way, Memphis, TN 38118",
	"Kungsgatan 32, 111 35 Stockholm",
	"12 Wharf Road, Port Melbourne VIC 3207",
}
