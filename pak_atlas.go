package pak

import (
	"time"

	"github.com/polydawn/refmt/obj/atlas"
)

var Atlas = atlas.MustBuild(
	ArchiveID_AtlasEntry,
	time_AtlasEntry,
	atlas.BuildEntry(Event{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(Event_Log{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(Event_Progress{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(Event_Result{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(ErrorInfo{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(Listing{}).StructMap().Autogenerate().Complete(),
	atlas.BuildEntry(ListingEntry{}).StructMap().Autogenerate().Complete(),
)

var ArchiveID_AtlasEntry = atlas.BuildEntry(ArchiveID{}).Transform().
	TransformMarshal(atlas.MakeMarshalTransformFunc(
		func(x ArchiveID) (string, error) {
			return x.String(), nil
		})).
	TransformUnmarshal(atlas.MakeUnmarshalTransformFunc(
		func(x string) (ArchiveID, error) {
			return ParseArchiveID(x)
		})).
	Complete()

var time_AtlasEntry = atlas.BuildEntry(time.Time{}).Transform().
	TransformMarshal(atlas.MakeMarshalTransformFunc(
		func(x time.Time) (string, error) {
			return x.UTC().Format(time.RFC3339Nano), nil
		})).
	TransformUnmarshal(atlas.MakeUnmarshalTransformFunc(
		func(x string) (time.Time, error) {
			return time.Parse(time.RFC3339Nano, x)
		})).
	Complete()
