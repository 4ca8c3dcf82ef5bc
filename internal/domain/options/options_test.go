package options_test

import (
	"testing"

	"github.com/okian/rolematch/internal/domain/options"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAll(t *testing.T) {
	Convey("Given the predefined form choices", t, func() {
		all := options.All()

		Convey("Then every list has the expected size", func() {
			So(len(all.CourseUniversities), ShouldEqual, 22)
			So(all.Languages, ShouldResemble, []string{"English", "Sinhala", "Tamil"})
			So(len(all.Skills), ShouldEqual, 17)
			So(len(all.Internships), ShouldEqual, 10)
		})

		Convey("Then the no-internship choice is last", func() {
			So(all.Internships[len(all.Internships)-1], ShouldEqual, options.NoInternship)
		})

		Convey("When a returned list is modified", func() {
			all.Skills[0] = "COBOL"

			Convey("Then the package lists are unchanged", func() {
				So(options.Skills()[0], ShouldEqual, "Python")
				So(options.IsKnownSkill("COBOL"), ShouldBeFalse)
				So(options.IsKnownSkill("Node.js"), ShouldBeTrue)
			})
		})

		Convey("When checking submitted skills", func() {
			Convey("Then matching ignores case and space", func() {
				So(options.IsKnownSkill(" python "), ShouldBeTrue)
				So(options.IsKnownSkill("node.JS"), ShouldBeTrue)
			})

			Convey("Then unknown skills keep input order", func() {
				So(options.UnknownSkills([]string{"Rust", "SQL", "COBOL"}), ShouldResemble, []string{"Rust", "COBOL"})
				So(options.UnknownSkills([]string{"Python"}), ShouldBeNil)
			})
		})
	})
}
