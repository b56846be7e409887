package feed

import (
	"regexp"
	"strconv"
	"strings"

	"retro-hunt/internal/model"
)

const (
	// StatusApproved is the only status value that lets a row into the catalogue.
	StatusApproved = "Approve"

	DefaultTitle       = "Untitled Product"
	DefaultDescription = "A unique vintage item from Japan."
)

var leadingInt = regexp.MustCompile(`^[+-]?[0-9]+`)

// Normalize filters the approved rows and maps each of them to a Product.
// It never fails: malformed fields fall back to their defaults.
func Normalize(rows []Row) []model.Product {
	products := make([]model.Product, 0, len(rows))

	for _, row := range rows {
		if row.Get(ColStatus) != StatusApproved {
			continue
		}
		products = append(products, normalizeRow(row, len(products)))
	}

	return products
}

// normalizeRow maps a single approved row. index is the position of the row
// among approved rows and backs the id when the sheet leaves it empty.
func normalizeRow(row Row, index int) model.Product {
	priceYen := parseYen(row.Get(ColPriceYen))

	return model.Product{
		ID:            withDefault(row.Get(ColID), strconv.Itoa(index+1)),
		Title:         withDefault(row.Get(ColProductName), DefaultTitle),
		Description:   withDefault(row.Get(ColAICaption), DefaultDescription),
		PriceYen:      priceYen,
		PriceUSD:      model.USDFromYen(priceYen),
		ImageURL:      row.Get(ColImageURL),
		AffiliateLink: ResolveAffiliateLink(withDefault(row.Get(ColAffiliateLink), row.Get(ColSourceURL))),
		Category:      parseCategory(row.Get(ColCategory)),
		// The sheet has no condition column yet.
		Condition:  model.ConditionUsed,
		IsFeatured: parseFeatured(row.Get(ColIsFeatured)),
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// parseYen reads the leading base-10 integer of value, so "12.5" is 12 and
// "¥3000" is 0. Negative prices clamp to 0.
func parseYen(value string) int {
	digits := leadingInt.FindString(strings.TrimSpace(value))
	if digits == "" {
		return 0
	}

	yen, err := strconv.Atoi(digits)
	if err != nil || yen < 0 {
		return 0
	}
	return yen
}

func parseCategory(value string) model.Category {
	category := model.Category(strings.TrimSpace(value))
	if category.Valid() {
		return category
	}
	return model.Categories[0]
}

func parseFeatured(value string) bool {
	return strings.ToUpper(value) == "TRUE"
}
