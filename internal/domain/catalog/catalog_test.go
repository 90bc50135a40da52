package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mergington/internal/domain/catalog"
	"github.com/okian/mergington/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestDefaultSeed(t *testing.T) {
	Convey("Given the built-in seed", t, func() {
		s := catalog.Default()
		byName := make(map[string]model.Activity, len(s.Activities))
		for _, a := range s.Activities {
			byName[a.Name] = a
		}

		Convey("Then it should pass validation", func() {
			So(catalog.Validate(s), ShouldBeNil)
		})

		Convey("And it should contain the expected activities", func() {
			for _, name := range []string{"Chess Club", "Programming Class", "Basketball", "Tennis Club"} {
				So(byName, ShouldContainKey, name)
			}
		})

		Convey("And Chess Club should start with michael", func() {
			So(byName["Chess Club"].Participants, ShouldContain, "michael@mergington.edu")
		})

		Convey("And Tennis Club should start empty", func() {
			So(byName["Tennis Club"].Participants, ShouldNotBeNil)
			So(byName["Tennis Club"].Participants, ShouldBeEmpty)
		})

		Convey("And no roster should exceed its capacity", func() {
			for _, a := range s.Activities {
				So(len(a.Participants), ShouldBeLessThanOrEqualTo, a.MaxParticipants)
			}
		})

		Convey("And every call should return an independent copy", func() {
			other := catalog.Default()
			other.Activities[0].Participants[0] = "changed@mergington.edu"
			So(catalog.Default().Activities[0].Participants[0], ShouldEqual, "michael@mergington.edu")
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given seeds that break the invariants", t, func() {
		base := func() model.Activity {
			return model.Activity{Name: "Chess Club", MaxParticipants: 2, Participants: []string{"a@x"}}
		}

		Convey("When names are duplicated", func() {
			err := catalog.Validate(catalog.Seed{Activities: []model.Activity{base(), base()}})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When a name is empty", func() {
			a := base()
			a.Name = ""
			err := catalog.Validate(catalog.Seed{Activities: []model.Activity{a}})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When capacity is not positive", func() {
			a := base()
			a.MaxParticipants = 0
			err := catalog.Validate(catalog.Seed{Activities: []model.Activity{a}})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When a roster has a duplicate email", func() {
			a := base()
			a.Participants = []string{"a@x", "a@x"}
			err := catalog.Validate(catalog.Seed{Activities: []model.Activity{a}})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When a roster exceeds capacity", func() {
			a := base()
			a.Participants = []string{"a@x", "b@x", "c@x"}
			err := catalog.Validate(catalog.Seed{Activities: []model.Activity{a}})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When the seed is empty", func() {
			err := catalog.Validate(catalog.Seed{})
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a seed loader", t, func() {
		ctx := context.Background()

		Convey("When no path is given", func() {
			s, err := catalog.Load(ctx, "")

			Convey("Then the built-in seed should be used", func() {
				So(err, ShouldBeNil)
				So(len(s.Activities), ShouldEqual, len(catalog.Default().Activities))
			})
		})

		Convey("When loading a valid YAML file", func() {
			path := writeSeed(t, `
activities:
  - name: Robotics
    description: Build robots
    schedule: Saturdays, 10:00 AM - 12:00 PM
    max_participants: 8
    participants:
      - ada@mergington.edu
  - name: Choir
    description: Sing together
    schedule: Mondays, 4:00 PM - 5:00 PM
    max_participants: 25
`)
			s, err := catalog.Load(ctx, path)

			Convey("Then activities should keep file order and fields", func() {
				So(err, ShouldBeNil)
				So(len(s.Activities), ShouldEqual, 2)
				So(s.Activities[0].Name, ShouldEqual, "Robotics")
				So(s.Activities[0].MaxParticipants, ShouldEqual, 8)
				So(s.Activities[0].Participants, ShouldResemble, []string{"ada@mergington.edu"})
				So(s.Activities[1].Participants, ShouldNotBeNil)
				So(s.Activities[1].Participants, ShouldBeEmpty)
			})
		})

		Convey("When the file breaks an invariant", func() {
			path := writeSeed(t, `
activities:
  - name: Robotics
    max_participants: 1
    participants: [a@x, b@x]
`)
			_, err := catalog.Load(ctx, path)
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := catalog.Load(ctx, "/non/existent/seed.yaml")
			So(errors.Is(err, catalog.ErrLoadSeed), ShouldBeTrue)
		})

		Convey("When the file is not valid YAML", func() {
			path := writeSeed(t, `activities: [`)
			_, err := catalog.Load(ctx, path)
			So(errors.Is(err, catalog.ErrLoadSeed), ShouldBeTrue)
		})
	})
}
