package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth",
	"William", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen",
	"Wei", "Priya", "Mateo", "Amara", "Yuki", "Olu", "Sofia", "Arjun", "Lena", "Omar",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Chen", "Patel", "Okafor", "Tanaka", "Novak", "Haddad",
}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var roles = []domain.Role{
	domain.RoleJobSeeker,
	domain.RoleEmployer,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

// GenerateEmailFromName turns "Ada Lovelace" into something like "ada.lovelace42@domain".
func GenerateEmailFromName(name, emailDomainName string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	name := GenerateRandomName()
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        GenerateEmailFromName(name, emailDomainName),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var (
	seniorities = []string{"Junior", "", "Senior", "Staff", "Lead"}
	disciplines = []string{"Backend", "Frontend", "Full Stack", "Data", "Platform", "Mobile", "QA"}
	positions   = []string{"Engineer", "Developer", "Analyst", "Architect"}
	companies   = []string{"Tech Solutions Inc.", "Acme Corp", "Globex", "Initech", "Umbrella Labs", "Hooli", "Stark Industries"}
	locations   = []string{"Remote", "New York, NY", "San Francisco, CA", "Austin, TX", "London, UK", "Berlin, DE"}
	stacks      = []string{"Go", "TypeScript", "React", "PostgreSQL", "Kubernetes", "Python", "Redis", "AWS"}
)

func GenerateRandomJobTitle() string {
	parts := []string{
		seniorities[rand.Intn(len(seniorities))],
		disciplines[rand.Intn(len(disciplines))],
		positions[rand.Intn(len(positions))],
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// GenerateRandomJob returns an unsaved job owned by employerID. About one job in four has no salary.
func GenerateRandomJob(employerID int64) *domain.Job {
	first := stacks[rand.Intn(len(stacks))]
	second := stacks[rand.Intn(len(stacks))]

	job := &domain.Job{
		Title:       GenerateRandomJobTitle(),
		Description: fmt.Sprintf("We are looking for someone comfortable with %s and %s to join our team.", first, second),
		Company:     companies[rand.Intn(len(companies))],
		Location:    locations[rand.Intn(len(locations))],
		EmployerID:  employerID,
	}

	if rand.Intn(4) != 0 {
		salary := int64(40+rand.Intn(161)) * 1000 // 40k ~ 200k
		job.Salary = &salary
	}

	return job
}
