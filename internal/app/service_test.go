package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/mergington/internal/adapters/repository"
	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/domain/catalog"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func smallSeed() catalog.Seed {
	return catalog.Seed{Activities: []model.Activity{
		{
			Name:            "Robotics",
			Description:     "Build robots",
			Schedule:        "Mondays, 4:00 PM",
			MaxParticipants: 2,
			Participants:    []string{"ada@mergington.edu"},
		},
		{
			Name:            "Choir",
			Description:     "Sing together",
			Schedule:        "Thursdays, 3:30 PM",
			MaxParticipants: 40,
			Participants:    []string{},
		},
	}}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("And registry operations should be refused", func() {
			_, err := svc.ListActivities(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.Signup(context.Background(), "Chess Club", "a@b"), service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.Unregister(context.Background(), "Chess Club", "a@b"), service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithLogger(logger.Get()))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start with the built-in catalog", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["activities"], ShouldEqual, len(catalog.Default().Activities))
				So(stats["capacityEnforced"], ShouldBeFalse)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with an explicit seed", t, func() {
		svc := service.New(service.WithSeed(smallSeed()))
		defer svc.Stop()

		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then the registry should hold exactly that seed in order", func() {
			got, err := svc.ListActivities(context.Background())
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Name, ShouldEqual, "Robotics")
			So(got[1].Name, ShouldEqual, "Choir")
			So(svc.GetStats()["participants"], ShouldEqual, 1)
		})
	})

	Convey("Given a seed that breaks its own capacity", t, func() {
		seed := smallSeed()
		seed.Activities[0].Participants = []string{"a@m", "b@m", "c@m"}
		svc := service.New(service.WithSeed(seed))

		Convey("Then Start should reject it", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, catalog.ErrInvalidSeed), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})
	})

	Convey("Given a YAML seed file", t, func() {
		path := filepath.Join(t.TempDir(), "activities.yaml")
		So(os.WriteFile(path, []byte(`
activities:
  - name: Debate Team
    description: Argue well
    schedule: Wednesdays
    max_participants: 16
    participants: [lee@mergington.edu]
`), 0o600), ShouldBeNil)
		svc := service.New(service.WithSeedFile(path))
		defer svc.Stop()

		Convey("Then Start should load it", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			got, err := svc.ListActivities(context.Background())
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Name, ShouldEqual, "Debate Team")
			So(got[0].Participants, ShouldResemble, []string{"lee@mergington.edu"})
		})
	})

	Convey("Given a missing seed file", t, func() {
		svc := service.New(service.WithSeedFile("/non/existent/activities.yaml"))

		Convey("Then Start should fail with a load error", func() {
			So(errors.Is(svc.Start(context.Background()), catalog.ErrLoadSeed), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithSeed(smallSeed()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
				_, err := svc.ListActivities(context.Background())
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And stopping twice should be safe", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_Roster(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSeed(smallSeed()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		roster := func(name string) []string {
			all, err := svc.ListActivities(ctx)
			So(err, ShouldBeNil)
			for _, a := range all {
				if a.Name == name {
					return a.Participants
				}
			}
			return nil
		}

		Convey("When signing up a new student", func() {
			So(svc.Signup(ctx, "Choir", "sam@mergington.edu"), ShouldBeNil)

			Convey("Then the roster should list them", func() {
				So(roster("Choir"), ShouldResemble, []string{"sam@mergington.edu"})
			})

			Convey("And a repeat signup should be rejected", func() {
				err := svc.Signup(ctx, "Choir", "sam@mergington.edu")
				So(errors.Is(err, repository.ErrAlreadySignedUp), ShouldBeTrue)
				So(roster("Choir"), ShouldHaveLength, 1)
			})

			Convey("And unregistering should remove them", func() {
				So(svc.Unregister(ctx, "Choir", "sam@mergington.edu"), ShouldBeNil)
				So(roster("Choir"), ShouldBeEmpty)
			})
		})

		Convey("When the activity does not exist", func() {
			So(errors.Is(svc.Signup(ctx, "robotics", "x@m"), repository.ErrActivityNotFound), ShouldBeTrue)
			So(errors.Is(svc.Unregister(ctx, "Nope", "x@m"), repository.ErrActivityNotFound), ShouldBeTrue)
		})

		Convey("When unregistering someone who is not signed up", func() {
			err := svc.Unregister(ctx, "Robotics", "ghost@mergington.edu")
			So(errors.Is(err, repository.ErrNotSignedUp), ShouldBeTrue)
		})

		Convey("When the roster is full and capacity is advisory", func() {
			So(svc.Signup(ctx, "Robotics", "b@m"), ShouldBeNil)
			So(svc.Signup(ctx, "Robotics", "c@m"), ShouldBeNil)

			Convey("Then the roster should grow past max_participants", func() {
				So(roster("Robotics"), ShouldResemble, []string{"ada@mergington.edu", "b@m", "c@m"})
			})
		})

		Convey("When a listing is taken before a signup", func() {
			snapshot, err := svc.ListActivities(ctx)
			So(err, ShouldBeNil)
			So(svc.Signup(ctx, "Choir", "late@m"), ShouldBeNil)

			Convey("Then the earlier listing should not change", func() {
				So(snapshot[1].Participants, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a service enforcing capacity", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSeed(smallSeed()), service.WithCapacityEnforcement(true))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the signup past max_participants should be rejected", func() {
			So(svc.Signup(ctx, "Robotics", "b@m"), ShouldBeNil)
			err := svc.Signup(ctx, "Robotics", "c@m")
			So(errors.Is(err, repository.ErrActivityFull), ShouldBeTrue)
			So(svc.GetStats()["capacityEnforced"], ShouldBeTrue)
		})

		Convey("And a duplicate on a full roster should still report the duplicate", func() {
			So(svc.Signup(ctx, "Robotics", "b@m"), ShouldBeNil)
			err := svc.Signup(ctx, "Robotics", "ada@mergington.edu")
			So(errors.Is(err, repository.ErrAlreadySignedUp), ShouldBeTrue)
		})
	})
}
