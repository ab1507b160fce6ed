package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// FormType classifies a dataset row as a base creature or one of its variants.
type FormType string

// Form classification constants
const (
	FormBase     FormType = "base"
	FormMega     FormType = "mega"
	FormPrimal   FormType = "primal"
	FormRegional FormType = "regional"
	FormSpecial  FormType = "special"
)

// FormTypes lists every classification in schema order.
var FormTypes = []FormType{FormBase, FormMega, FormPrimal, FormRegional, FormSpecial}

// Valid reports whether f is one of the known classifications.
func (f FormType) Valid() bool {
	for _, ft := range FormTypes {
		if f == ft {
			return true
		}
	}
	return false
}

// Vulnerability verdicts
const (
	VerdictWeak      = "weak"
	VerdictResistant = "resistant"
	VerdictNeutral   = "neutral"
)

// MaxTeamSize is the largest number of members a team can hold.
const MaxTeamSize = 6

var (
	ErrTeamTooLarge     = errors.New("team has more than 6 members")
	ErrDuplicateMember  = errors.New("pokemon selected more than once")
	ErrInvalidPosition  = errors.New("position must be between 1 and 6")
	ErrPositionTaken    = errors.New("position already taken")
	ErrMegaNotAllowed   = errors.New("team does not allow mega or primal forms")
	ErrLegendaryBlocked = errors.New("team does not allow legendaries")
)

// Domain types

// Pokemon is one dataset row: a creature or one of its alternate forms.
// Rows sharing a PokedexNumber form a variant family grouped by BaseName.
type Pokemon struct {
	UniqueID      int      `json:"unique_id" db:"unique_id"`
	PokedexNumber int      `json:"pokedex_number" db:"pokedex_number"`
	Name          string   `json:"name" db:"name"`
	BaseName      string   `json:"base_name" db:"base_name"`
	FormType      FormType `json:"form_type" db:"form_type"`
	Type1         string   `json:"type1" db:"type1"`
	Type2         *string  `json:"type2,omitempty" db:"type2"`
	TotalStats    int      `json:"total_stats" db:"total_stats"`
	HP            int      `json:"hp" db:"hp"`
	Attack        int      `json:"attack" db:"attack"`
	Defense       int      `json:"defense" db:"defense"`
	SpAttack      int      `json:"sp_attack" db:"sp_attack"`
	SpDefense     int      `json:"sp_defense" db:"sp_defense"`
	Speed         int      `json:"speed" db:"speed"`
	Generation    int      `json:"generation" db:"generation"`
	Legendary     bool     `json:"legendary" db:"legendary"`
	IsAlternate   bool     `json:"is_alternate" db:"is_alternate"`
	OriginRegion  string   `json:"origin_region" db:"origin_region"`
}

// Types returns the distinct non-empty type tags in slot order.
func (p Pokemon) Types() []string {
	types := []string{p.Type1}
	if p.Type2 != nil && *p.Type2 != "" && *p.Type2 != p.Type1 {
		types = append(types, *p.Type2)
	}
	return types
}

// TypeInteraction is the damage multiplier an attacking type deals to a
// defending type. Pairs with no row are neutral (1x).
type TypeInteraction struct {
	AttackingType string          `json:"attacking_type" db:"attacking_type"`
	DefendingType string          `json:"defending_type" db:"defending_type"`
	Effectiveness decimal.Decimal `json:"effectiveness" db:"effectiveness"`
}

// Team is an ordered, in-session selection of up to six pokemon.
type Team struct {
	Members []Pokemon `json:"members"`
}

// NewTeam validates size and uniqueness of the selection.
func NewTeam(members []Pokemon) (Team, error) {
	if len(members) > MaxTeamSize {
		return Team{}, ErrTeamTooLarge
	}
	seen := make(map[int]bool, len(members))
	for _, p := range members {
		if seen[p.UniqueID] {
			return Team{}, ErrDuplicateMember
		}
		seen[p.UniqueID] = true
	}
	return Team{Members: members}, nil
}

// IDs returns the unique ids of the team members in position order.
func (t Team) IDs() []int {
	ids := make([]int, len(t.Members))
	for i, p := range t.Members {
		ids[i] = p.UniqueID
	}
	return ids
}

// VulnerabilityScore is one row of a team's vulnerability table.
type VulnerabilityScore struct {
	AttackingType string `json:"attacking_type" db:"attacking_type"`
	TeamScore     int    `json:"team_score" db:"team_score"`
	Affected      int    `json:"pokemon_affected" db:"pokemon_affected"`
	Verdict       string `json:"verdict" db:"-"`
}

// VerdictFor maps a team score to its verdict.
func VerdictFor(score int) string {
	switch {
	case score > 0:
		return VerdictWeak
	case score < 0:
		return VerdictResistant
	default:
		return VerdictNeutral
	}
}

type SavedTeam struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	AllowMegas       bool      `json:"allow_megas" db:"allow_megas"`
	AllowLegendaries bool      `json:"allow_legendaries" db:"allow_legendaries"`
	ShareSlug        string    `json:"share_slug" db:"share_slug"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type TeamMember struct {
	TeamID   string  `json:"team_id"`
	Position int     `json:"position"`
	Nickname *string `json:"nickname,omitempty"`
	Pokemon  Pokemon `json:"pokemon"`
}

type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	TableName string    `json:"table_name" db:"table_name"`
	Action    string    `json:"action_type" db:"action_type"`
	RecordID  string    `json:"record_id" db:"record_id"`
	TeamID    string    `json:"team_id" db:"team_id"`
	NewValues string    `json:"new_values" db:"new_values"`
	LoggedAt  time.Time `json:"logged_at" db:"logged_at"`
}

// Dashboard types

type Overview struct {
	TotalEntries   int `json:"total_entries" db:"total_entries"`
	DistinctDex    int `json:"distinct_pokedex_numbers" db:"distinct_pokedex_numbers"`
	AlternateForms int `json:"alternate_forms" db:"alternate_forms"`
	Legendaries    int `json:"legendaries" db:"legendaries"`
}

type MegaEvolution struct {
	BaseName           string  `json:"base_name" db:"base_name"`
	BaseForm           string  `json:"base_form" db:"base_form"`
	BaseStats          int     `json:"base_stats" db:"base_stats"`
	MegaForm           string  `json:"mega_form" db:"mega_form"`
	MegaStats          int     `json:"mega_stats" db:"mega_stats"`
	PowerIncrease      int     `json:"power_increase" db:"power_increase"`
	PercentageIncrease float64 `json:"percentage_increase" db:"-"`
}

type FormFamily struct {
	BaseName   string     `json:"base_name"`
	TotalForms int        `json:"total_forms"`
	FormTypes  []FormType `json:"form_types"`
	MaxStats   int        `json:"max_stats"`
	MinStats   int        `json:"min_stats"`
}

type GenerationCount struct {
	Generation int      `json:"generation" db:"generation"`
	FormType   FormType `json:"form_type" db:"form_type"`
	Count      int      `json:"count" db:"count"`
}

type PowerRank struct {
	Pokemon    Pokemon `json:"pokemon"`
	PowerLevel float64 `json:"power_level"`
	Rank       int     `json:"power_rank"`
}

type Attacker struct {
	Pokemon     Pokemon `json:"pokemon"`
	AttackStyle string  `json:"attack_style"`
}

// Request types

type AnalyzeRequest struct {
	PokemonIDs []int    `json:"pokemon_ids"`
	Names      []string `json:"names"`
}

type CreateTeamRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	AllowMegas       *bool  `json:"allow_megas"`
	AllowLegendaries *bool  `json:"allow_legendaries"`
}

type AddMemberRequest struct {
	PokemonID int     `json:"pokemon_id"`
	Position  int     `json:"position"`
	Nickname  *string `json:"nickname"`
}

// Response types

type AnalyzeResponse struct {
	Team           []Pokemon            `json:"team"`
	Scores         []VulnerabilityScore `json:"scores"`
	DatasetVersion int64                `json:"dataset_version"`
}

type CreateTeamResponse struct {
	TeamID    string `json:"team_id"`
	AdminKey  string `json:"admin_key"`
	ShareSlug string `json:"share_slug"`
}

type TeamDetailResponse struct {
	Team        SavedTeam    `json:"team"`
	MemberCount int          `json:"pokemon_count"`
	Age         string       `json:"age"`
	Members     []TeamMember `json:"members"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
