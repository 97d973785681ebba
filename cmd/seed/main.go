package main

import (
	"context"
	"log"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seeds the database with demo data: departments, users with known
// passwords, issues across the status pipeline with images, timelines and
// SLA rows, plus votes, comments, a notification and a published survey.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx := context.Background()
	store, err := config.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	for _, name := range []string{
		config.ColUsers, config.ColDepartments, config.ColIssues,
		config.ColIssueImages, config.ColIssueTimeline, config.ColVotes,
		config.ColComments, config.ColNotifications, config.ColSurveys,
		config.ColSurveyQuestions, config.ColSurveyResponses, config.ColSLARecords,
	} {
		if _, err := store.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}

	deptPublic := seedDepartment(ctx, store, "Public Works", "public-works", "Roads, pavements and streetlights")
	deptWater := seedDepartment(ctx, store, "Water Board", "water-board", "Water supply and drainage")
	seedDepartment(ctx, store, "Sanitation", "sanitation", "Garbage collection and cleanliness")

	resident1 := seedUser(ctx, store, "resident1@demo.city", "Asha Verma", models.RoleResident, nil)
	resident2 := seedUser(ctx, store, "resident2@demo.city", "Rahul Nair", models.RoleResident, nil)
	official1 := seedUser(ctx, store, "official1@demo.city", "Meera Joshi", models.RoleOfficial, &deptPublic)
	seedUser(ctx, store, "journalist1@demo.city", "Dev Kapoor", models.RoleJournalist, nil)
	seedUser(ctx, store, "admin@demo.city", "City Admin", models.RoleAdmin, nil)

	type demoIssue struct {
		title      string
		desc       string
		category   models.IssueCategory
		severity   models.IssueSeverity
		status     models.IssueStatus
		lat, lng   float64
		author     primitive.ObjectID
		dept       *primitive.ObjectID
		assignee   *primitive.ObjectID
		imageCount int
	}

	demos := []demoIssue{
		{"Pothole on Main St", "Large pothole near the market crossing, two-wheelers are swerving into traffic to avoid it.", models.Road, models.High, models.Resolved, 28.5355, 77.3910, resident1, &deptPublic, &official1, 2},
		{"Garbage pileup at Sector 12", "Garbage has not been collected for over a week and the pile is spreading across the footpath.", models.Garbage, models.Medium, models.InProgress, 28.5412, 77.3880, resident2, &deptPublic, &official1, 1},
		{"Water leak near school", "Continuous water leakage from the supply line outside the primary school gate since Monday.", models.Water, models.Critical, models.Assigned, 28.5300, 77.3950, resident1, &deptWater, &official1, 0},
		{"Streetlight out on 5th Ave", "The streetlight at the corner of 5th Avenue has been dark for two weeks, the stretch feels unsafe.", models.Streetlight, models.Low, models.Acknowledged, 28.5380, 77.4010, resident2, &deptPublic, nil, 0},
		{"Blocked drain before monsoon", "The storm drain outside house 41 is fully blocked with silt and plastic ahead of the rains.", models.Drainage, models.High, models.Submitted, 28.5445, 77.3855, resident1, nil, nil, 1},
		{"Broken pavement slabs", "Several pavement slabs are broken and tilting outside the community hall entrance.", models.Road, models.Medium, models.Verified, 28.5330, 77.3890, resident2, &deptPublic, &official1, 0},
	}

	statusFlow := []models.IssueStatus{
		models.Submitted, models.Acknowledged, models.Assigned,
		models.InProgress, models.Resolved, models.Verified,
	}

	issues := store.Collection(config.ColIssues)
	var created []primitive.ObjectID

	for _, d := range demos {
		now := time.Now()
		issue := models.Issue{
			ID:            primitive.NewObjectID(),
			Title:         d.title,
			Description:   d.desc,
			Category:      d.category,
			Severity:      d.severity,
			Status:        d.status,
			Latitude:      d.lat,
			Longitude:     d.lng,
			PriorityScore: models.PriorityScore(d.severity),
			CreatedByID:   d.author,
			AssignedToID:  d.assignee,
			DepartmentID:  d.dept,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if d.status.Closed() {
			issue.ResolvedAt = &now
		}
		if _, err := issues.InsertOne(ctx, issue); err != nil {
			log.Fatalf("Failed to insert issue: %v", err)
		}
		created = append(created, issue.ID)

		for i := 0; i < d.imageCount; i++ {
			image := models.IssueImage{
				IssueID:   issue.ID,
				URL:       "https://picsum.photos/seed/" + issue.ID.Hex() + string(rune('a'+i)) + "/800/600",
				Order:     i,
				CreatedAt: now,
			}
			if _, err := store.Collection(config.ColIssueImages).InsertOne(ctx, image); err != nil {
				log.Fatalf("Failed to insert image: %v", err)
			}
		}

		// replay the pipeline up to the current status
		idx := 0
		for i, s := range statusFlow {
			if s == d.status {
				idx = i
			}
		}
		for i := 0; i <= idx; i++ {
			updatedBy := official1
			note := "Progress update."
			if i == 0 {
				updatedBy = d.author
				note = "Issue reported by resident."
			} else if i == idx && d.status == models.Resolved {
				note = "Work completed and verified."
			}
			entry := models.TimelineEntry{
				IssueID:     issue.ID,
				Status:      statusFlow[i],
				Note:        &note,
				UpdatedByID: updatedBy,
				CreatedAt:   now.Add(-time.Duration(idx-i) * 48 * time.Hour),
			}
			if _, err := store.Collection(config.ColIssueTimeline).InsertOne(ctx, entry); err != nil {
				log.Fatalf("Failed to insert timeline entry: %v", err)
			}
		}

		sla := models.SLARecord{
			IssueID:     issue.ID,
			TargetHours: models.DefaultSLATargetHours,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if d.status != models.Submitted {
			ack := now.Add(-72 * time.Hour)
			sla.AcknowledgedAt = &ack
		}
		if d.status.Closed() {
			sla.ResolvedAt = &now
		}
		if _, err := store.Collection(config.ColSLARecords).InsertOne(ctx, sla); err != nil {
			log.Fatalf("Failed to insert SLA record: %v", err)
		}
	}

	seedComment(ctx, store, created[0], official1, "We have received your report and will inspect shortly.")
	seedComment(ctx, store, created[0], resident1, "Thank you for the update. The repair looks good.")
	seedComment(ctx, store, created[1], official1, "Inspecting this week. Cleanup crew assigned.")
	seedVote(ctx, store, created[0], resident1)
	seedVote(ctx, store, created[0], resident2)
	seedVote(ctx, store, created[1], resident1)
	seedVote(ctx, store, created[2], resident2)

	body := "Your report 'Pothole on Main St' is now Resolved."
	link := "/dashboard/issues"
	notification := models.Notification{
		UserID:    resident1,
		Type:      models.NotifyStatusUpdate,
		Title:     "Issue status updated",
		Body:      &body,
		Link:      &link,
		CreatedAt: time.Now(),
	}
	if _, err := store.Collection(config.ColNotifications).InsertOne(ctx, notification); err != nil {
		log.Fatalf("Failed to insert notification: %v", err)
	}

	seedSurvey(ctx, store, official1, deptPublic, resident1, resident2)

	log.Println("Seed complete")
}

func seedDepartment(ctx context.Context, store *config.Store, name, slug, description string) primitive.ObjectID {
	dept := models.Department{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        slug,
		Description: &description,
		CreatedAt:   time.Now(),
	}
	if _, err := store.Collection(config.ColDepartments).InsertOne(ctx, dept); err != nil {
		log.Fatalf("Failed to insert department %s: %v", slug, err)
	}
	return dept.ID
}

func seedUser(ctx context.Context, store *config.Store, email, name string, role models.UserRole, deptID *primitive.ObjectID) primitive.ObjectID {
	user := models.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		Name:          name,
		Role:          role,
		DepartmentID:  deptID,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := user.SetPassword("Password123"); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if _, err := store.Collection(config.ColUsers).InsertOne(ctx, user); err != nil {
		log.Fatalf("Failed to insert user %s: %v", email, err)
	}
	return user.ID
}

func seedComment(ctx context.Context, store *config.Store, issueID, authorID primitive.ObjectID, body string) {
	comment := models.Comment{
		IssueID:   issueID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if _, err := store.Collection(config.ColComments).InsertOne(ctx, comment); err != nil {
		log.Fatalf("Failed to insert comment: %v", err)
	}
}

func seedVote(ctx context.Context, store *config.Store, issueID, userID primitive.ObjectID) {
	vote := models.Vote{IssueID: issueID, UserID: userID, CreatedAt: time.Now()}
	if _, err := store.Collection(config.ColVotes).InsertOne(ctx, vote); err != nil {
		log.Fatalf("Failed to insert vote: %v", err)
	}
}

func seedSurvey(ctx context.Context, store *config.Store, createdBy, deptID primitive.ObjectID, respondents ...primitive.ObjectID) {
	description := "Help us improve services."
	survey := models.Survey{
		ID:           primitive.NewObjectID(),
		Title:        "Public Works Satisfaction",
		Description:  &description,
		CreatedByID:  createdBy,
		DepartmentID: &deptID,
		StartsAt:     time.Now(),
		EndsAt:       time.Now().Add(14 * 24 * time.Hour),
		Published:    true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if _, err := store.Collection(config.ColSurveys).InsertOne(ctx, survey); err != nil {
		log.Fatalf("Failed to insert survey: %v", err)
	}

	question := models.SurveyQuestion{
		ID:       primitive.NewObjectID(),
		SurveyID: survey.ID,
		Text:     "How satisfied are you with road maintenance?",
		Order:    0,
		Options:  []string{"Poor", "Fair", "Good", "Excellent"},
	}
	if _, err := store.Collection(config.ColSurveyQuestions).InsertOne(ctx, question); err != nil {
		log.Fatalf("Failed to insert survey question: %v", err)
	}

	answers := []interface{}{2, "Good"}
	for i, userID := range respondents {
		response := models.SurveyResponse{
			SurveyID:   survey.ID,
			QuestionID: question.ID,
			UserID:     userID,
			Answer:     answers[i%len(answers)],
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if _, err := store.Collection(config.ColSurveyResponses).InsertOne(ctx, response); err != nil {
			log.Fatalf("Failed to insert survey response: %v", err)
		}
	}
}
