package model

// All lists every migrated model, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Category{},
		&Tag{},
		&BlogPost{},
		&Comment{},
		&BlogLike{},
		&Job{},
		&JobApplication{},
		&Enquiry{},
		&Offer{},
		&Review{},
	}
}
