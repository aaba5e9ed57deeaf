package catalog

var defaultLocations = []Location{
	{Name: "Paris, France", Lat: 48.85837, Lng: 2.29448, Hint: "Iconic iron tower"},
	{Name: "New York, USA", Lat: 40.68925, Lng: -74.0445, Hint: "Island with a green statue"},
	{Name: "Rio de Janeiro, Brazil", Lat: -22.95191, Lng: -43.21049, Hint: "Christ on the hill"},
	{Name: "Cairo, Egypt", Lat: 29.97923, Lng: 31.1342, Hint: "Ancient triangles in the desert"},
	{Name: "Sydney, Australia", Lat: -33.85678, Lng: 151.2153, Hint: "Roof of white shells"},
	{Name: "Tokyo, Japan", Lat: 35.65858, Lng: 139.74543, Hint: "Red Eiffel-style tower"},
	{Name: "Mexico City, Mexico", Lat: 19.43262, Lng: -99.13321, Hint: "Latin historic centre"},
	{Name: "London, United Kingdom", Lat: 51.50073, Lng: -0.12463, Hint: "Clock by the river"},
	{Name: "Rome, Italy", Lat: 41.89021, Lng: 12.49223, Hint: "Stone amphitheatre"},
	{Name: "Reykjavik, Iceland", Lat: 64.127, Lng: -21.8174, Hint: "Modern church on the coast"},
}
