package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/champsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulationRequest(t *testing.T) {
	Convey("Given a request body without optional fields", t, func() {
		var req types.SimulationRequest
		err := json.Unmarshal([]byte(`{"target":"Norris"}`), &req)

		Convey("Then defaults should be left to the service", func() {
			So(err, ShouldBeNil)
			So(req.Target, ShouldEqual, "Norris")
			So(req.Seasons, ShouldEqual, 0)
			So(req.Seed, ShouldBeNil)
			So(req.Parallel, ShouldBeFalse)
		})
	})

	Convey("Given a request with seed zero", t, func() {
		var req types.SimulationRequest
		err := json.Unmarshal([]byte(`{"seed":0,"parallel":true}`), &req)

		Convey("Then the seed should be distinguishable from a missing one", func() {
			So(err, ShouldBeNil)
			So(req.Seed, ShouldNotBeNil)
			So(*req.Seed, ShouldEqual, uint64(0))
			So(req.Parallel, ShouldBeTrue)
		})
	})
}

func TestSimulationJSON(t *testing.T) {
	Convey("Given a finished simulation", t, func() {
		sim := types.Simulation{
			ID:             "abc",
			CreatedAt:      time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
			Target:         "Verstappen",
			Seasons:        100,
			WinProbability: 0.25,
			TitleOdds:      []types.Odds{{Competitor: "Piastri", Probability: 0.5}},
		}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(sim)
			So(err, ShouldBeNil)
			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)

			Convey("Then it should use snake_case keys", func() {
				So(fields["win_probability"], ShouldEqual, 0.25)
				So(fields["created_at"], ShouldEqual, "2025-11-02T00:00:00Z")
				So(fields, ShouldContainKey, "mean_leader_points")
				So(fields, ShouldContainKey, "title_odds")
			})
		})
	})
}
