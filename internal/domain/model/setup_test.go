package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/champsim/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validParams() model.Params {
	return model.Params{
		Competitors: []model.Competitor{
			{Name: "Piastri", StartPoints: 346, MainWeight: 0.26, SecondaryWeight: 0.25},
			{Name: "Norris", StartPoints: 332, MainWeight: 0.23, SecondaryWeight: 0.22},
			{Name: "Verstappen", StartPoints: 306, MainWeight: 0.28, SecondaryWeight: 0.30},
		},
		MainPoints:      model.PointsTable{25, 18, 15},
		SecondaryPoints: model.PointsTable{8, 7},
		Modifiers: model.ModifierTable{
			"High":   {0.9, 0.9, 1.3},
			"Medium": {1, 1, 1},
		},
		Schedule:        []model.Category{"High", "Medium"},
		SecondaryEvents: []int{1},
		DNFProbability:  0.05,
	}
}

func TestNewSetup(t *testing.T) {
	convey.Convey("Given valid parameters", t, func() {
		p := validParams()

		convey.Convey("When building a setup", func() {
			s, err := model.NewSetup(p)

			convey.Convey("Then it should carry the configuration", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Len(), convey.ShouldEqual, 3)
				convey.So(s.StartPoints(), convey.ShouldResemble, []int{346, 332, 306})
				convey.So(s.MainWeights(), convey.ShouldResemble, []float64{0.26, 0.23, 0.28})
				convey.So(s.SecondaryWeights(), convey.ShouldResemble, []float64{0.25, 0.22, 0.30})
				convey.So(s.DNFProbability(), convey.ShouldEqual, 0.05)
			})

			convey.Convey("And secondary flags should follow the index set", func() {
				sched := s.Schedule()
				convey.So(sched, convey.ShouldHaveLength, 2)
				convey.So(sched[0], convey.ShouldResemble, model.Event{Category: "High"})
				convey.So(sched[1], convey.ShouldResemble, model.Event{Category: "Medium", Secondary: true})
			})

			convey.Convey("And competitors should be found by name", func() {
				idx, ok := s.IndexOf("Verstappen")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(idx, convey.ShouldEqual, 2)
				_, ok = s.IndexOf("Hamilton")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the caller mutates its inputs afterwards", func() {
			s, err := model.NewSetup(p)
			convey.So(err, convey.ShouldBeNil)
			p.Competitors[0].StartPoints = 0
			p.MainPoints[0] = 99
			p.Modifiers["High"][2] = 5

			convey.Convey("Then the setup should be unaffected", func() {
				convey.So(s.StartPoints()[0], convey.ShouldEqual, 346)
				convey.So(s.MainPoints()[0], convey.ShouldEqual, 25)
				mod, ok := s.Modifier("High")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(mod[2], convey.ShouldEqual, 1.3)
			})
		})

		convey.Convey("When the accessors' results are mutated", func() {
			s, _ := model.NewSetup(p)
			pts := s.StartPoints()
			pts[1] = 1000
			table := s.MainPoints()
			table[0] = 0

			convey.Convey("Then the setup should be unaffected", func() {
				convey.So(s.StartPoints()[1], convey.ShouldEqual, 332)
				convey.So(s.MainPoints()[0], convey.ShouldEqual, 25)
			})
		})
	})
}

func TestNewSetup_Validation(t *testing.T) {
	convey.Convey("Given parameters with a single defect", t, func() {
		cases := []struct {
			name   string
			mutate func(p *model.Params)
			want   error
		}{
			{"no competitors", func(p *model.Params) {
				p.Competitors = nil
				p.Modifiers = model.ModifierTable{}
				p.Schedule = nil
				p.SecondaryEvents = nil
			}, model.ErrNoCompetitors},
			{"duplicate name", func(p *model.Params) { p.Competitors[1].Name = "Piastri" }, model.ErrDuplicateCompetitor},
			{"short modifier", func(p *model.Params) { p.Modifiers["High"] = []float64{1, 1} }, model.ErrCompetitorMismatch},
			{"long modifier", func(p *model.Params) { p.Modifiers["Medium"] = []float64{1, 1, 1, 1} }, model.ErrCompetitorMismatch},
			{"negative weight", func(p *model.Params) { p.Competitors[0].MainWeight = -0.1 }, model.ErrInvalidWeights},
			{"NaN weight", func(p *model.Params) { p.Competitors[2].SecondaryWeight = math.NaN() }, model.ErrInvalidWeights},
			{"negative modifier", func(p *model.Params) { p.Modifiers["Medium"][0] = -1 }, model.ErrInvalidWeights},
			{"zero main sum", func(p *model.Params) { p.Modifiers["High"] = []float64{0, 0, 0} }, model.ErrInvalidWeights},
			{"main sum overflows", func(p *model.Params) {
				p.Competitors[0].MainWeight = 1e308
				p.Modifiers["High"] = []float64{10, 1, 1}
			}, model.ErrInvalidWeights},
			{"zero secondary sum on flagged event", func(p *model.Params) {
				for i := range p.Competitors {
					p.Competitors[i].SecondaryWeight = 0
				}
			}, model.ErrInvalidWeights},
			{"unknown category", func(p *model.Params) { p.Schedule = append(p.Schedule, "Low") }, model.ErrUnknownCategory},
			{"secondary index past end", func(p *model.Params) { p.SecondaryEvents = []int{2} }, model.ErrSchedule},
			{"negative secondary index", func(p *model.Params) { p.SecondaryEvents = []int{-1} }, model.ErrSchedule},
			{"dnf above one", func(p *model.Params) { p.DNFProbability = 1.5 }, model.ErrInvalidProbability},
			{"dnf negative", func(p *model.Params) { p.DNFProbability = -0.01 }, model.ErrInvalidProbability},
			{"negative points", func(p *model.Params) { p.SecondaryPoints = model.PointsTable{8, -1} }, model.ErrInvalidPoints},
			{"negative standings", func(p *model.Params) { p.Competitors[0].StartPoints = -3 }, model.ErrInvalidPoints},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				p := validParams()
				tc.mutate(&p)
				_, err := model.NewSetup(p)

				convey.Convey("Then the setup should be rejected", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, tc.want), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When secondary weights are all zero but no event is flagged", func() {
			p := validParams()
			p.SecondaryEvents = nil
			for i := range p.Competitors {
				p.Competitors[i].SecondaryWeight = 0
			}
			_, err := model.NewSetup(p)

			convey.Convey("Then the setup should be accepted", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the schedule is empty", func() {
			p := validParams()
			p.Schedule = nil
			p.SecondaryEvents = nil
			s, err := model.NewSetup(p)

			convey.Convey("Then the setup should be accepted with no events", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Schedule(), convey.ShouldBeEmpty)
			})
		})
	})
}
