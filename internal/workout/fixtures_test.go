package workout_test

import "github.com/2beens/fitplanner/internal/workout"

// seededCatalog returns the seed exercises with ids assigned in order, starting from 1.
func seededCatalog() []workout.Exercise {
	catalog := make([]workout.Exercise, len(workout.SeedExercises))
	for i, ex := range workout.SeedExercises {
		ex.ID = i + 1
		catalog[i] = ex
	}
	return catalog
}

func exerciseByName(catalog []workout.Exercise, name string) workout.Exercise {
	for _, ex := range catalog {
		if ex.Name == name {
			return ex
		}
	}
	panic("no exercise " + name)
}

func names(exercises []workout.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Name
	}
	return out
}
