// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
	"github.com/danielhkuo/teamdex/testutil"
)

func TestCreateAndGetTeam(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	teamID, _, slug := testutil.CreateTestTeam(t, st, cfg, true, false)

	byID, err := st.GetTeamByID(ctx, teamID)
	if err != nil {
		t.Fatal(err)
	}
	if byID.Name != "Test Team" || !byID.AllowMegas || byID.AllowLegendaries {
		t.Errorf("unexpected team: %+v", byID)
	}
	if byID.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	bySlug, err := st.GetTeamBySlug(ctx, slug)
	if err != nil {
		t.Fatal(err)
	}
	if bySlug.ID != teamID {
		t.Errorf("slug lookup returned %s, want %s", bySlug.ID, teamID)
	}

	if _, err := st.GetTeamBySlug(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTeam_NameTooShort(t *testing.T) {
	st := testutil.SetupTestStore(t)
	_, err := st.CreateTeam(context.Background(), models.SavedTeam{ID: "t1", Name: "ab", ShareSlug: "s1"})
	if err == nil {
		t.Error("expected check constraint failure for short name")
	}
}

func TestAddTeamMember(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.SeedTestData(t, st)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	teamID, _, _ := testutil.CreateTestTeam(t, st, cfg, true, true)

	nick := "Blaze"
	member, err := st.AddTeamMember(ctx, teamID, testutil.CharizardID, 2, &nick)
	if err != nil {
		t.Fatal(err)
	}
	if member.Pokemon.Name != "Charizard" || member.Position != 2 {
		t.Errorf("unexpected member: %+v", member)
	}
	testutil.AddTestMember(t, st, teamID, testutil.BlastoiseID, 1)

	members, err := st.TeamMembers(ctx, teamID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Pokemon.Name != "Blastoise" || members[1].Pokemon.Name != "Charizard" {
		t.Errorf("members not ordered by position: %s, %s", members[0].Pokemon.Name, members[1].Pokemon.Name)
	}
	if members[0].Nickname != nil {
		t.Errorf("expected no nickname, got %q", *members[0].Nickname)
	}
	if members[1].Nickname == nil || *members[1].Nickname != "Blaze" {
		t.Errorf("expected nickname Blaze, got %v", members[1].Nickname)
	}
}

func TestAddTeamMember_Constraints(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.SeedTestData(t, st)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	open, _, _ := testutil.CreateTestTeam(t, st, cfg, true, true)
	testutil.AddTestMember(t, st, open, testutil.BulbasaurID, 1)

	strict, _, _ := testutil.CreateTestTeam(t, st, cfg, false, false)

	full, _, _ := testutil.CreateTestTeam(t, st, cfg, true, true)
	for pos, id := range []int{1, 2, 5, 7, 8, 9} {
		testutil.AddTestMember(t, st, full, id, pos+1)
	}

	tests := []struct {
		name     string
		teamID   string
		pokemon  int
		position int
		wantErr  error
	}{
		{"position too low", open, testutil.CharizardID, 0, models.ErrInvalidPosition},
		{"position too high", open, testutil.CharizardID, 7, models.ErrInvalidPosition},
		{"position taken", open, testutil.CharizardID, 1, models.ErrPositionTaken},
		{"duplicate pokemon", open, testutil.BulbasaurID, 2, models.ErrDuplicateMember},
		{"unknown team", "missing", testutil.CharizardID, 1, store.ErrNotFound},
		{"unknown pokemon", open, 999, 2, store.ErrNotFound},
		{"mega blocked", strict, testutil.MegaCharizardXID, 1, models.ErrMegaNotAllowed},
		{"legendary blocked", strict, testutil.MewtwoID, 1, models.ErrLegendaryBlocked},
		{"team full", full, testutil.KyogreID, 6, models.ErrTeamTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.AddTeamMember(ctx, tt.teamID, tt.pokemon, tt.position, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Primal forms count as megas; Primal Kyogre is also legendary
	mixed, _, _ := testutil.CreateTestTeam(t, st, cfg, false, true)
	if _, err := st.AddTeamMember(ctx, mixed, testutil.PrimalKyogreID, 1, nil); !errors.Is(err, models.ErrMegaNotAllowed) {
		t.Errorf("expected primal rejected, got %v", err)
	}
	if _, err := st.AddTeamMember(ctx, mixed, testutil.KyogreID, 1, nil); err != nil {
		t.Errorf("legendary base form should be allowed: %v", err)
	}
}

func TestActivityLog(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.SeedTestData(t, st)
	cfg := testutil.GetTestConfig()
	ctx := context.Background()

	teamID, _, _ := testutil.CreateTestTeam(t, st, cfg, true, true)
	other, _, _ := testutil.CreateTestTeam(t, st, cfg, true, true)

	nick := "Tidal"
	if _, err := st.AddTeamMember(ctx, teamID, testutil.KyogreID, 1, &nick); err != nil {
		t.Fatal(err)
	}
	testutil.AddTestMember(t, st, other, testutil.BulbasaurID, 1)

	entries, err := st.ActivityLog(ctx, teamID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for the team, got %d", len(entries))
	}

	e := entries[0]
	if e.TableName != "team_members" || e.Action != "INSERT" || e.TeamID != teamID {
		t.Errorf("unexpected entry: %+v", e)
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(e.NewValues), &values); err != nil {
		t.Fatalf("new_values is not JSON: %v", err)
	}
	if values["pokemon_name"] != "Kyogre" || values["team_name"] != "Test Team" || values["nickname"] != "Tidal" {
		t.Errorf("unexpected new_values: %v", values)
	}
	if values["position"] != float64(1) {
		t.Errorf("expected position 1, got %v", values["position"])
	}
}
