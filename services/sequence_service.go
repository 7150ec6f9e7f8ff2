package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// Human-readable identifier prefixes. The formatted identifiers are an
// external contract (receipts, QR codes, customer communication) and must
// not change.
const (
	salesPrefix = "TSRT"
)

var orderPrefixes = map[models.OrderType]string{
	models.OrderTypeRental:    "TS01RENT",
	models.OrderTypeRepair:    "TS01REP",
	models.OrderTypeCustomize: "TS01CUST",
}

// maxIdentifierAttempts bounds the retry loop on identifier collisions
// before falling back to a timestamp-derived suffix.
const maxIdentifierAttempts = 5

// NextOrderIdentifier issues the next order identifier for the given order
// type, e.g. TS01RENT-O03. It must be called inside the transaction that
// creates the order: the per-category counter row is advanced with an atomic
// in-place UPDATE, so the row lock serializes concurrent creators and no
// two callers can ever observe the same value.
func NextOrderIdentifier(tx *gorm.DB, orderType models.OrderType) (string, error) {
	prefix, ok := orderPrefixes[orderType]
	if !ok {
		return "", fmt.Errorf("%w: unknown order type %q", ErrValidation, orderType)
	}

	category := "order:" + string(orderType)
	format := func(n int64) string { return fmt.Sprintf("%s-O%02d", prefix, n) }
	exists := func(candidate string) (bool, error) {
		var count int64
		err := tx.Model(&models.Order{}).Unscoped().
			Where("order_identifier = ?", candidate).Count(&count).Error
		return count > 0, err
	}
	seed := func() (int64, error) { return maxOrderSuffix(tx, prefix) }
	fallback := func() string { return fmt.Sprintf("%s-O%d", prefix, time.Now().Unix()) }

	return nextIdentifier(tx, category, format, exists, seed, fallback)
}

// NextSalesIdentifier issues the next sales identifier for the given year,
// e.g. TSRT-2025-07. Sales numbering restarts at 1 each year; each year is
// its own counter category.
func NextSalesIdentifier(tx *gorm.DB, year int) (string, error) {
	category := fmt.Sprintf("sales:%d", year)
	format := func(n int64) string { return fmt.Sprintf("%s-%d-%02d", salesPrefix, year, n) }
	exists := func(candidate string) (bool, error) {
		var count int64
		err := tx.Model(&models.Sale{}).
			Where("sales_identifier = ?", candidate).Count(&count).Error
		return count > 0, err
	}
	seed := func() (int64, error) { return maxSalesSuffix(tx, year) }
	fallback := func() string { return fmt.Sprintf("%s-%d-%d", salesPrefix, year, time.Now().Unix()) }

	return nextIdentifier(tx, category, format, exists, seed, fallback)
}

// nextIdentifier advances the category counter and formats candidates until
// one passes the pre-insert existence check. Collisions only happen when the
// counter was seeded below legacy hand-assigned identifiers; each retry
// advances the counter again, so progress is guaranteed. After the retry
// budget a timestamp-derived identifier keeps creation moving.
func nextIdentifier(tx *gorm.DB, category string, format func(int64) string, exists func(string) (bool, error), seed func() (int64, error), fallback func() string) (string, error) {
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		n, err := nextSequenceValue(tx, category, seed)
		if err != nil {
			return "", err
		}

		candidate := format(n)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		log.Printf("[SEQUENCE] identifier %s already taken, retrying (attempt %d)", candidate, attempt+1)
	}

	candidate := fallback()
	taken, err := exists(candidate)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: category %s", ErrIdentifierExhausted, category)
	}
	log.Printf("[SEQUENCE] falling back to timestamp identifier %s for category %s", candidate, category)
	return candidate, nil
}

// nextSequenceValue atomically increments and returns the counter for a
// category, creating and seeding the row on first use.
func nextSequenceValue(tx *gorm.DB, category string, seed func() (int64, error)) (int64, error) {
	res := tx.Model(&models.IdentifierSequence{}).
		Where("category = ?", category).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// First identifier in this category: seed the counter from any
		// legacy identifiers already in the table, then increment again.
		start, err := seed()
		if err != nil {
			return 0, err
		}
		row := models.IdentifierSequence{Category: category, LastValue: start}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return 0, err
		}
		res = tx.Model(&models.IdentifierSequence{}).
			Where("category = ?", category).
			UpdateColumn("last_value", gorm.Expr("last_value + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
	}

	var seq models.IdentifierSequence
	if err := tx.Where("category = ?", category).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

// maxOrderSuffix scans existing order identifiers with the given prefix and
// returns the highest numeric suffix. Unparseable identifiers restart
// numbering at 0.
func maxOrderSuffix(tx *gorm.DB, prefix string) (int64, error) {
	var identifiers []string
	err := tx.Model(&models.Order{}).Unscoped().
		Where("order_identifier LIKE ?", prefix+"-O%").
		Pluck("order_identifier", &identifiers).Error
	if err != nil {
		return 0, err
	}

	var max int64
	for _, id := range identifiers {
		suffix := strings.TrimPrefix(id, prefix+"-O")
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// maxSalesSuffix scans existing sales identifiers for the given year and
// returns the highest numeric suffix.
func maxSalesSuffix(tx *gorm.DB, year int) (int64, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", salesPrefix, year)
	var identifiers []string
	err := tx.Model(&models.Sale{}).
		Where("sales_identifier LIKE ?", yearPrefix+"%").
		Pluck("sales_identifier", &identifiers).Error
	if err != nil {
		return 0, err
	}

	var max int64
	for _, id := range identifiers {
		n, err := strconv.ParseInt(strings.TrimPrefix(id, yearPrefix), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}
