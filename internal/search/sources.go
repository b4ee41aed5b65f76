package search

import "fmt"

// Source is one target site: a display name plus pure query builders from a
// location name. Strict templates carry quoted terms that force listing-like
// pages; relaxed templates trade precision for coverage.
type Source struct {
	Name    string
	Query   func(location string) string
	Relaxed func(location string) string
}

// exclusions keep index and sold pages out of the provider results before
// the classifier ever sees them.
const exclusions = "-inurl:agencies -inurl:label -inurl:search -inurl:page -inurl:town -inurl:region -sold -under-offer"

func DefaultSources() []Source {
	return []Source{
		{
			Name: "Farmbuy",
			Query: func(loc string) string {
				return fmt.Sprintf(`site:farmbuy.com %s "price" "acres" %s`, loc, exclusions)
			},
			Relaxed: func(loc string) string {
				return fmt.Sprintf(`site:farmbuy.com %s land for sale %s`, loc, exclusions)
			},
		},
		{
			Name: "Elders",
			Query: func(loc string) string {
				return fmt.Sprintf(`site:eldersrealestate.com.au %s rural "price" %s`, loc, exclusions)
			},
			Relaxed: func(loc string) string {
				return fmt.Sprintf(`site:eldersrealestate.com.au %s rural land for sale %s`, loc, exclusions)
			},
		},
		{
			Name: "RealEstate.com.au",
			Query: func(loc string) string {
				return fmt.Sprintf(`site:realestate.com.au %s rural land "price" %s`, loc, exclusions)
			},
			Relaxed: func(loc string) string {
				return fmt.Sprintf(`site:realestate.com.au %s rural land for sale %s`, loc, exclusions)
			},
		},
		{
			Name: "Domain",
			Query: func(loc string) string {
				return fmt.Sprintf(`site:domain.com.au %s rural "price" %s`, loc, exclusions)
			},
			Relaxed: func(loc string) string {
				return fmt.Sprintf(`site:domain.com.au %s rural land for sale %s`, loc, exclusions)
			},
		},
	}
}
