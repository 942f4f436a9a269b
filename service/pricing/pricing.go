package pricing

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gatepass/db"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// One priced period. Start and End are whole days (midnight in the schedule's location), both inclusive
type Range struct {
	Start time.Time
	End   time.Time
	Price decimal.Decimal
}

// Schedule: the price list of the event.
// Normal tickets pay the unit price of the first range containing today's date, or Default when none does.
// VIP tickets always admit VIPPartySize people for the flat VIPPrice
type Schedule struct {
	Location     *time.Location
	Default      decimal.Decimal
	VIPPrice     decimal.Decimal
	VIPPartySize int
	Ranges       []Range
}

// The price of a ticket being created now
type Quote struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
}

// YAML layout of the schedule file. Prices are strings so they are never rounded through float64
type scheduleFile struct {
	Timezone     string `yaml:"timezone"`
	DefaultPrice string `yaml:"default_price"`
	VIP          struct {
		Price     string `yaml:"price"`
		PartySize int    `yaml:"party_size"`
	} `yaml:"vip"`
	Ranges []struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
		Price string `yaml:"price"`
	} `yaml:"ranges"`
}

// Load and validate a schedule file
func Load(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing schedule: %w", err)
	}
	return Parse(data)
}

// Parse and validate a YAML schedule
func Parse(data []byte) (*Schedule, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pricing schedule: %w", err)
	}

	location := time.UTC
	if file.Timezone != "" {
		loc, err := time.LoadLocation(file.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", file.Timezone, err)
		}
		location = loc
	}

	schedule := &Schedule{Location: location, VIPPartySize: file.VIP.PartySize}

	var err error
	if schedule.Default, err = decimal.NewFromString(file.DefaultPrice); err != nil {
		return nil, fmt.Errorf("invalid default_price: %w", err)
	}
	if schedule.VIPPrice, err = decimal.NewFromString(file.VIP.Price); err != nil {
		return nil, fmt.Errorf("invalid vip price: %w", err)
	}

	for i, r := range file.Ranges {
		start, err := time.ParseInLocation(dateLayout, r.Start, location)
		if err != nil {
			return nil, fmt.Errorf("range %d: invalid start: %w", i, err)
		}
		end, err := time.ParseInLocation(dateLayout, r.End, location)
		if err != nil {
			return nil, fmt.Errorf("range %d: invalid end: %w", i, err)
		}
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("range %d: invalid price: %w", i, err)
		}
		schedule.Ranges = append(schedule.Ranges, Range{Start: start, End: end, Price: price})
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Check the schedule is usable: positive prices, a supported VIP party size and ordered, non-overlapping ranges
func (schedule *Schedule) Validate() error {
	if !schedule.Default.IsPositive() {
		return errors.New("default price must be positive")
	}
	if !schedule.VIPPrice.IsPositive() {
		return errors.New("vip price must be positive")
	}
	if schedule.VIPPartySize != 5 && schedule.VIPPartySize != 8 {
		return fmt.Errorf("vip party size must be 5 or 8, got %d", schedule.VIPPartySize)
	}

	for i, r := range schedule.Ranges {
		if r.End.Before(r.Start) {
			return fmt.Errorf("range %d ends before it starts", i)
		}
		if !r.Price.IsPositive() {
			return fmt.Errorf("range %d price must be positive", i)
		}
		if i > 0 && !r.Start.After(schedule.Ranges[i-1].End) {
			return fmt.Errorf("range %d overlaps or precedes range %d", i, i-1)
		}
	}
	return nil
}

// Unit price of a normal ticket bought at the given instant. Only the calendar date matters
func (schedule *Schedule) UnitPrice(now time.Time) decimal.Decimal {
	local := now.In(schedule.Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, schedule.Location)

	for _, r := range schedule.Ranges {
		if !today.Before(r.Start) && !today.After(r.End) {
			return r.Price
		}
	}
	return schedule.Default
}

// Price a ticket. VIP ignores the requested quantity
func (schedule *Schedule) Quote(ticketType db.TicketType, quantity int, now time.Time) (Quote, error) {
	switch ticketType {
	case db.VIP:
		return Quote{Quantity: schedule.VIPPartySize, UnitPrice: schedule.VIPPrice, Price: schedule.VIPPrice}, nil
	case db.Normal:
		if quantity < 1 {
			return Quote{}, ErrInvalidQuantity
		}
		unit := schedule.UnitPrice(now)
		return Quote{Quantity: quantity, UnitPrice: unit, Price: unit.Mul(decimal.NewFromInt(int64(quantity)))}, nil
	}
	return Quote{}, fmt.Errorf("invalid ticket type: %q", ticketType)
}
