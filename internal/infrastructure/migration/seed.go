package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/identity"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedData is the fixture document loaded by the seed command
type SeedData struct {
	Admins       []SeedUser        `yaml:"admins"`
	Categories   []SeedCategory    `yaml:"categories"`
	Destinations []SeedDestination `yaml:"destinations"`
	Tours        []SeedTour        `yaml:"tours"`
	Team         []SeedTeamMember  `yaml:"team"`
}

// SeedUser is an administrator account
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// SeedCategory is a tour category
type SeedCategory struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// SeedDestination is a destination with its attractions
type SeedDestination struct {
	Name        string           `yaml:"name"`
	Slug        string           `yaml:"slug"`
	Country     string           `yaml:"country"`
	Description string           `yaml:"description"`
	ImageURL    string           `yaml:"image_url"`
	Featured    bool             `yaml:"featured"`
	Attractions []SeedAttraction `yaml:"attractions"`
}

// SeedAttraction is a point of interest at a destination
type SeedAttraction struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	EntryFee    string `yaml:"entry_fee"`
}

// SeedTour is a tour referencing its destination and category by slug
type SeedTour struct {
	Title        string          `yaml:"title"`
	Slug         string          `yaml:"slug"`
	Summary      string          `yaml:"summary"`
	Description  string          `yaml:"description"`
	Destination  string          `yaml:"destination"`
	Category     string          `yaml:"category"`
	Price        string          `yaml:"price"`
	DurationDays int             `yaml:"duration_days"`
	MaxGroupSize int             `yaml:"max_group_size"`
	Difficulty   string          `yaml:"difficulty"`
	CoverImage   string          `yaml:"cover_image"`
	Gallery      []string        `yaml:"gallery"`
	Publish      bool            `yaml:"publish"`
	Featured     bool            `yaml:"featured"`
	Itinerary    []SeedItinerary `yaml:"itinerary"`
}

// SeedItinerary is one day of a seeded tour
type SeedItinerary struct {
	Day           int    `yaml:"day"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Meals         string `yaml:"meals"`
	Accommodation string `yaml:"accommodation"`
}

// SeedTeamMember is a member of the team page
type SeedTeamMember struct {
	Name     string            `yaml:"name"`
	Position string            `yaml:"position"`
	Bio      string            `yaml:"bio"`
	ImageURL string            `yaml:"image_url"`
	Email    string            `yaml:"email"`
	Socials  map[string]string `yaml:"socials"`
}

// ParseSeed decodes a fixture document, rejecting unknown keys
func ParseSeed(r io.Reader) (*SeedData, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var data SeedData
	if err := dec.Decode(&data); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// LoadSeedFile reads and decodes a fixture file
func LoadSeedFile(path string) (*SeedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSeed(f)
}

// SeedRepositories are the stores the seeder writes to
type SeedRepositories struct {
	Users        identity.UserRepository
	Team         identity.TeamMemberRepository
	Categories   catalog.CategoryRepository
	Destinations catalog.DestinationRepository
	Attractions  catalog.AttractionRepository
	Tours        catalog.TourRepository
}

// SeedReport counts created and skipped records
type SeedReport struct {
	Created map[string]int
	Skipped map[string]int
}

func newSeedReport() *SeedReport {
	return &SeedReport{Created: map[string]int{}, Skipped: map[string]int{}}
}

func (r *SeedReport) record(kind string, created bool) {
	if created {
		r.Created[kind]++
	} else {
		r.Skipped[kind]++
	}
}

// Seeder loads fixtures through the domain constructors so every record
// passes the same validation as one created through the API. Records whose
// slug or email already exists are skipped, making seeding repeatable.
type Seeder struct {
	repos  SeedRepositories
	logger *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(repos SeedRepositories, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{repos: repos, logger: logger}
}

// Seed writes the fixtures in dependency order
func (s *Seeder) Seed(ctx context.Context, data *SeedData) (*SeedReport, error) {
	report := newSeedReport()

	for _, u := range data.Admins {
		if err := s.seedAdmin(ctx, u, report); err != nil {
			return report, fmt.Errorf("admin %s: %w", u.Email, err)
		}
	}
	for _, c := range data.Categories {
		if err := s.seedCategory(ctx, c, report); err != nil {
			return report, fmt.Errorf("category %s: %w", c.Slug, err)
		}
	}
	for _, d := range data.Destinations {
		if err := s.seedDestination(ctx, d, report); err != nil {
			return report, fmt.Errorf("destination %s: %w", d.Slug, err)
		}
	}
	for _, t := range data.Tours {
		if err := s.seedTour(ctx, t, report); err != nil {
			return report, fmt.Errorf("tour %s: %w", t.Slug, err)
		}
	}
	if err := s.seedTeam(ctx, data.Team, report); err != nil {
		return report, err
	}

	s.logger.Info("Seed data loaded",
		zap.Any("created", report.Created),
		zap.Any("skipped", report.Skipped),
	)
	return report, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, in SeedUser, report *SeedReport) error {
	exists, err := s.repos.Users.ExistsByEmail(ctx, identity.NormalizeEmail(in.Email))
	if err != nil {
		return err
	}
	if exists {
		report.record("users", false)
		return nil
	}

	user, err := identity.NewUser(in.Name, in.Email, in.Password)
	if err != nil {
		return err
	}
	if err := user.ChangeRole(identity.RoleAdmin); err != nil {
		return err
	}
	if err := s.repos.Users.Save(ctx, user); err != nil {
		return err
	}
	report.record("users", true)
	return nil
}

func (s *Seeder) seedCategory(ctx context.Context, in SeedCategory, report *SeedReport) error {
	exists, err := s.repos.Categories.ExistsBySlug(ctx, in.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		report.record("categories", false)
		return nil
	}

	category, err := catalog.NewCategory(in.Name, in.Slug, in.Description)
	if err != nil {
		return err
	}
	if err := s.repos.Categories.Save(ctx, category); err != nil {
		return err
	}
	report.record("categories", true)
	return nil
}

func (s *Seeder) seedDestination(ctx context.Context, in SeedDestination, report *SeedReport) error {
	exists, err := s.repos.Destinations.ExistsBySlug(ctx, in.Slug, uuid.Nil)
	if err != nil {
		return err
	}

	var destination *catalog.Destination
	if exists {
		report.record("destinations", false)
		if destination, err = s.repos.Destinations.FindBySlug(ctx, in.Slug); err != nil {
			return err
		}
	} else {
		destination, err = catalog.NewDestination(in.Name, in.Slug, in.Country, in.Description, in.ImageURL)
		if err != nil {
			return err
		}
		destination.SetFeatured(in.Featured)
		if err := s.repos.Destinations.Save(ctx, destination); err != nil {
			return err
		}
		report.record("destinations", true)
	}

	for _, a := range in.Attractions {
		if err := s.seedAttraction(ctx, destination.ID, a, report); err != nil {
			return fmt.Errorf("attraction %s: %w", a.Slug, err)
		}
	}
	return nil
}

func (s *Seeder) seedAttraction(ctx context.Context, destinationID uuid.UUID, in SeedAttraction, report *SeedReport) error {
	exists, err := s.repos.Attractions.ExistsBySlug(ctx, in.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		report.record("attractions", false)
		return nil
	}

	fee, err := parseAmount(in.EntryFee)
	if err != nil {
		return err
	}
	attraction, err := catalog.NewAttraction(catalog.AttractionDetails{
		Name:          in.Name,
		Slug:          in.Slug,
		DestinationID: destinationID,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		EntryFee:      fee,
	})
	if err != nil {
		return err
	}
	if err := s.repos.Attractions.Save(ctx, attraction); err != nil {
		return err
	}
	report.record("attractions", true)
	return nil
}

func (s *Seeder) seedTour(ctx context.Context, in SeedTour, report *SeedReport) error {
	exists, err := s.repos.Tours.ExistsBySlug(ctx, in.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		report.record("tours", false)
		return nil
	}

	destination, err := s.repos.Destinations.FindBySlug(ctx, in.Destination)
	if err != nil {
		return fmt.Errorf("destination %q: %w", in.Destination, err)
	}
	var categoryID *uuid.UUID
	if in.Category != "" {
		category, err := s.repos.Categories.FindBySlug(ctx, in.Category)
		if err != nil {
			return fmt.Errorf("category %q: %w", in.Category, err)
		}
		categoryID = &category.ID
	}
	price, err := parseAmount(in.Price)
	if err != nil {
		return err
	}

	tour, err := catalog.NewTour(catalog.TourDetails{
		Title:         in.Title,
		Slug:          in.Slug,
		Summary:       in.Summary,
		Description:   in.Description,
		DestinationID: destination.ID,
		CategoryID:    categoryID,
		Price:         price,
		DurationDays:  in.DurationDays,
		MaxGroupSize:  in.MaxGroupSize,
		Difficulty:    catalog.Difficulty(in.Difficulty),
		CoverImage:    in.CoverImage,
		Gallery:       in.Gallery,
	})
	if err != nil {
		return err
	}
	for _, day := range in.Itinerary {
		if _, err := tour.AddItineraryDay(catalog.ItineraryDayInput{
			DayNumber:     day.Day,
			Title:         day.Title,
			Description:   day.Description,
			Meals:         day.Meals,
			Accommodation: day.Accommodation,
		}); err != nil {
			return fmt.Errorf("day %d: %w", day.Day, err)
		}
	}
	if in.Publish {
		if err := tour.Publish(); err != nil {
			return err
		}
		if in.Featured {
			if err := tour.SetFeatured(true); err != nil {
				return err
			}
		}
	}
	// seeding is not an editorial change, nothing listens for these
	tour.ClearDomainEvents()

	if err := s.repos.Tours.Save(ctx, tour); err != nil {
		return err
	}
	report.record("tours", true)
	return nil
}

func (s *Seeder) seedTeam(ctx context.Context, members []SeedTeamMember, report *SeedReport) error {
	if len(members) == 0 {
		return nil
	}
	existing, err := s.repos.Team.FindAll(ctx, false)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, m := range existing {
		names[strings.ToLower(m.Name)] = true
	}
	order, err := s.repos.Team.MaxDisplayOrder(ctx)
	if err != nil {
		return err
	}

	for _, in := range members {
		if names[strings.ToLower(strings.TrimSpace(in.Name))] {
			report.record("team", false)
			continue
		}
		order++
		member, err := identity.NewTeamMember(identity.TeamMemberProfile{
			Name:     in.Name,
			Position: in.Position,
			Bio:      in.Bio,
			ImageURL: in.ImageURL,
			Email:    in.Email,
			Socials:  in.Socials,
			Active:   true,
		}, order)
		if err != nil {
			return fmt.Errorf("team member %s: %w", in.Name, err)
		}
		if err := s.repos.Team.Save(ctx, member); err != nil {
			return fmt.Errorf("team member %s: %w", in.Name, err)
		}
		report.record("team", true)
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
