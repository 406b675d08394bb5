package domain

import "strings"

// Category is one of the geographic subdivisions listings are partitioned by
type Category struct {
	Key  string // Numeric prefix, also the folder name
	Slug string // Path of the category listing page
}

var categorySlugs = []string{
	"1-busqueda-de-ofertas-de-empleo-en-aguascalientes",
	"2-busqueda-de-ofertas-de-empleo-en-baja-california",
	"3-busqueda-de-ofertas-de-empleo-en-baja-california-sur",
	"4-busqueda-de-ofertas-de-empleo-en-campeche",
	"5-busqueda-de-ofertas-de-empleo-en-coahuila",
	"6-busqueda-de-ofertas-de-empleo-en-colima",
	"7-busqueda-de-ofertas-de-empleo-en-chiapas",
	"8-busqueda-de-ofertas-de-empleo-en-chihuahua",
	"9-busqueda-de-ofertas-de-empleo-en-ciudad-de-mexico",
	"10-busqueda-de-ofertas-de-empleo-en-durango",
	"11-busqueda-de-ofertas-de-empleo-en-guanajuato",
	"12-busqueda-de-ofertas-de-empleo-en-guerrero",
	"13-busqueda-de-ofertas-de-empleo-en-hidalgo",
	"14-busqueda-de-ofertas-de-empleo-en-jalisco",
	"15-busqueda-de-ofertas-de-empleo-en-mexico",
	"16-busqueda-de-ofertas-de-empleo-en-michoacan",
	"17-busqueda-de-ofertas-de-empleo-en-morelos",
	"18-busqueda-de-ofertas-de-empleo-en-nayarit",
	"19-busqueda-de-ofertas-de-empleo-en-nuevo-leon",
	"20-busqueda-de-ofertas-de-empleo-en-oaxaca",
	"21-busqueda-de-ofertas-de-empleo-en-puebla",
	"22-busqueda-de-ofertas-de-empleo-en-queretaro",
	"23-busqueda-de-ofertas-de-empleo-en-quintana-roo",
	"24-busqueda-de-ofertas-de-empleo-en-san-luis-potosi",
	"25-busqueda-de-ofertas-de-empleo-en-sinaloa",
	"26-busqueda-de-ofertas-de-empleo-en-sonora",
	"27-busqueda-de-ofertas-de-empleo-en-tabasco",
	"28-busqueda-de-ofertas-de-empleo-en-tamaulipas",
	"29-busqueda-de-ofertas-de-empleo-en-tlaxcala",
	"30-busqueda-de-ofertas-de-empleo-en-veracruz",
	"31-busqueda-de-ofertas-de-empleo-en-yucatan",
	"32-busqueda-de-ofertas-de-empleo-en-zacatecas",
}

// NewCategory builds a Category from its listing slug
func NewCategory(slug string) Category {
	key, _, _ := strings.Cut(slug, "-")
	return Category{Key: key, Slug: slug}
}

// Categories returns the fixed set of states, in site order
func Categories() []Category {
	out := make([]Category, 0, len(categorySlugs))
	for _, slug := range categorySlugs {
		out = append(out, NewCategory(slug))
	}
	return out
}
