// Package seed fills a tenant with generated CRM data and imports workflow
// rules from YAML. Everything goes through the application services so the
// domain rules and events apply as they do for API traffic.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	customerapp "github.com/crm/backend/internal/application/customer"
	salesapp "github.com/crm/backend/internal/application/sales"
	supportapp "github.com/crm/backend/internal/application/support"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	leadSources    = []string{"WEB", "REFERRAL", "EVENT", "COLD_CALL", "PARTNER"}
	leadStatuses   = []string{"NEW", "CONTACTED", "QUALIFIED", "UNQUALIFIED"}
	leadRatings    = []string{"HOT", "WARM", "COLD"}
	dealStages     = []string{"NEW", "QUALIFIED", "PROPOSAL", "NEGOTIATION", "CLOSED_WON", "CLOSED_LOST"}
	priorities     = []string{"LOW", "MEDIUM", "HIGH"}
	ticketPriority = []string{"LOW", "MEDIUM", "HIGH", "URGENT"}
	ticketCategory = []string{"billing", "onboarding", "bug", "feature"}
)

// Generator produces valid create requests from a seeded faker. The same seed
// yields the same data.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator; seed 0 picks a random seed
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

func (g *Generator) pick(values []string) string {
	return values[g.faker.Number(0, len(values)-1)]
}

// uniqueEmail keeps generated addresses distinct within one run
func (g *Generator) uniqueEmail(first, last string, n int) string {
	local := strings.ToLower(first + "." + last)
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, local)
	return fmt.Sprintf("%s.%d@%s", local, n, g.faker.DomainName())
}

// Customer returns the n-th customer request
func (g *Generator) Customer(n int) customerapp.CreateCustomerRequest {
	first, last := g.faker.FirstName(), g.faker.LastName()
	return customerapp.CreateCustomerRequest{
		FirstName: first,
		LastName:  last,
		Email:     g.uniqueEmail(first, last, n),
		Phone:     g.faker.Phone(),
		Company:   g.faker.Company(),
		JobTitle:  g.faker.JobTitle(),
		Address: customerapp.AddressDTO{
			Street:  g.faker.Street(),
			City:    g.faker.City(),
			State:   g.faker.State(),
			Country: g.faker.Country(),
		},
		Status: "ACTIVE",
		Source: g.pick(leadSources),
	}
}

// Lead returns the n-th lead request
func (g *Generator) Lead(n int) customerapp.CreateLeadRequest {
	first, last := g.faker.FirstName(), g.faker.LastName()
	revenue := decimal.NewFromInt(int64(g.faker.Number(50, 5000)) * 1000)
	return customerapp.CreateLeadRequest{
		Name:              first + " " + last,
		Title:             g.faker.JobTitle(),
		Email:             g.uniqueEmail(first, last, n),
		Phone:             g.faker.Phone(),
		Company:           g.faker.Company(),
		Source:            g.pick(leadSources),
		Status:            g.pick(leadStatuses),
		Score:             g.faker.Number(0, 100),
		Website:           g.faker.URL(),
		Industry:          g.faker.BuzzWord(),
		AnnualRevenue:     &revenue,
		NumberOfEmployees: g.faker.Number(1, 5000),
		Rating:            g.pick(leadRatings),
		Address: customerapp.AddressDTO{
			City:    g.faker.City(),
			Country: g.faker.Country(),
		},
	}
}

// Deal returns a deal request for the given customer
func (g *Generator) Deal(customerID uuid.UUID) salesapp.CreateDealRequest {
	value := decimal.NewFromFloat(g.faker.Price(1000, 250000)).Round(2)
	closeDate := time.Now().AddDate(0, 0, g.faker.Number(7, 120)).UTC().Truncate(24 * time.Hour)
	return salesapp.CreateDealRequest{
		Title:             g.faker.ProductName(),
		Description:       g.faker.Sentence(8),
		Value:             &value,
		Stage:             g.pick(dealStages),
		CustomerID:        customerID,
		Priority:          g.pick(priorities),
		ExpectedCloseDate: &closeDate,
		LeadSource:        g.pick(leadSources),
		Probability:       g.faker.Number(0, 100),
	}
}

// Ticket returns a support ticket request for the given customer
func (g *Generator) Ticket(customerID uuid.UUID) supportapp.CreateTicketRequest {
	return supportapp.CreateTicketRequest{
		Subject:     g.faker.Sentence(5),
		Description: g.faker.Paragraph(1, 3, 12, " "),
		Priority:    g.pick(ticketPriority),
		Category:    g.pick(ticketCategory),
		CustomerID:  &customerID,
	}
}
