package workout

// SeedExercises is the initial exercise catalog.
var SeedExercises = []Exercise{
	{Name: "Bench Press", TargetMuscle: "Chest", Equipment: []string{"full_gym", "home_weights"}},
	{Name: "Push-up", TargetMuscle: "Chest", Equipment: []string{"bodyweight"}},
	{Name: "Dumbbell Flyes", TargetMuscle: "Chest", Equipment: []string{"full_gym", "home_weights"}},

	{Name: "Pull-up", TargetMuscle: "Back", Equipment: []string{"full_gym", "bodyweight"}},
	{Name: "Deadlift", TargetMuscle: "Back", Equipment: []string{"full_gym", "home_weights"}},
	{Name: "Bent-over Row", TargetMuscle: "Back", Equipment: []string{"full_gym", "home_weights"}},
	{Name: "Lat Pulldown", TargetMuscle: "Back", Equipment: []string{"full_gym"}},

	{Name: "Squat", TargetMuscle: "Legs", Equipment: []string{"bodyweight", "home_weights", "full_gym"}},
	{Name: "Lunge", TargetMuscle: "Legs", Equipment: []string{"bodyweight", "home_weights", "full_gym"}},
	{Name: "Leg Press", TargetMuscle: "Legs", Equipment: []string{"full_gym"}},
	{Name: "Calf Raise", TargetMuscle: "Legs", Equipment: []string{"bodyweight", "home_weights", "full_gym"}},

	{Name: "Overhead Press", TargetMuscle: "Shoulders", Equipment: []string{"full_gym", "home_weights"}},
	{Name: "Lateral Raise", TargetMuscle: "Shoulders", Equipment: []string{"full_gym", "home_weights", "bands_only"}},
	{Name: "Face Pull", TargetMuscle: "Shoulders", Equipment: []string{"full_gym", "bands_only"}},

	{Name: "Bicep Curl", TargetMuscle: "Arms", Equipment: []string{"full_gym", "home_weights", "bands_only"}},
	{Name: "Tricep Pushdown", TargetMuscle: "Arms", Equipment: []string{"full_gym", "bands_only"}},
	{Name: "Tricep Dip", TargetMuscle: "Arms", Equipment: []string{"bodyweight"}},

	{Name: "Plank", TargetMuscle: "Core", Equipment: []string{"bodyweight"}},
	{Name: "Crunch", TargetMuscle: "Core", Equipment: []string{"bodyweight"}},
	{Name: "Leg Raise", TargetMuscle: "Core", Equipment: []string{"bodyweight"}},

	{Name: "Burpee", TargetMuscle: "Full Body", Equipment: []string{"bodyweight"}},
	{Name: "Jumping Jacks", TargetMuscle: "Full Body", Equipment: []string{"bodyweight"}},
	{Name: "Kettlebell Swing", TargetMuscle: "Full Body", Equipment: []string{"home_weights", "full_gym"}},
	{Name: "Resistance Band Squat", TargetMuscle: "Legs", Equipment: []string{"bands_only"}},
}
