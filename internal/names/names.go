// Package names supplies the synthetic respondent name pool.
package names

import "math/rand"

var firstNames = []string{
	"Aarav", "Ananya", "Arjun", "Diya", "Ishaan", "Kavya", "Rohan", "Priya",
	"Vivaan", "Sneha", "Aditya", "Meera", "Karan", "Pooja", "Rahul", "Nisha",
	"Sameer", "Tanvi", "Varun", "Riya", "Dev", "Shruti", "Nikhil", "Anjali",
	"Aman", "Swati", "Harsh", "Divya", "Yash", "Neha",
}

var lastNames = []string{
	"Sharma", "Patel", "Singh", "Kumar", "Gupta", "Verma", "Reddy", "Nair",
	"Mehta", "Joshi", "Iyer", "Chopra", "Malhotra", "Desai", "Rao", "Kapoor",
	"Bose", "Menon", "Agarwal", "Mishra",
}

// Generate returns count full names drawn from the fixed pools without
// immediate repeats of the same combination where the pool allows it.
func Generate(rng *rand.Rand, count int) []string {
	if count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(out) < count {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		if _, dup := seen[name]; dup && len(seen) < len(firstNames)*len(lastNames) {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
