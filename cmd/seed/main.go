package main

import (
	"fmt"
	"log"
	"time"

	"github.com/socialnet/internal/config"
	"github.com/socialnet/internal/db"
	"github.com/socialnet/internal/service"
	"gorm.io/gorm"
)

const seedPassword = "password123"

type seedUser struct {
	email, first, last, bio string
}

type seedPost struct {
	author    string
	title     string
	content   string
	tags      []string
	scheduled bool
}

var (
	seedUsers = []seedUser{
		{"homer@springfield.com", "Homer", "Simpson", "Safety inspector, donut enthusiast."},
		{"marge@springfield.com", "Marge", "Simpson", "Painter and keeper of the house."},
		{"bart@springfield.com", "Bart", "Simpson", "Eat my shorts."},
		{"lisa@springfield.com", "Lisa", "Simpson", "Saxophone, vegetarianism and facts."},
		{"ned@springfield.com", "Ned", "Flanders", "Hi-diddly-ho, neighborino!"},
	}

	// follower -> followed
	seedFollows = [][2]string{
		{"homer@springfield.com", "marge@springfield.com"},
		{"marge@springfield.com", "homer@springfield.com"},
		{"bart@springfield.com", "lisa@springfield.com"},
		{"lisa@springfield.com", "marge@springfield.com"},
		{"ned@springfield.com", "homer@springfield.com"},
	}

	seedPosts = []seedPost{
		{"homer@springfield.com", "Donut review", "Pink frosting, **sprinkles**, nothing else matters.", []string{"food"}, false},
		{"marge@springfield.com", "Family portrait", "Finished the new painting of the family.", []string{"family", "art"}, false},
		{"lisa@springfield.com", "Jazz night", "Practising with Bleeding Gums tonight.", []string{"music"}, false},
		{"bart@springfield.com", "Prank schedule", "Coming soon to a school near you.", []string{"school"}, true},
		{"ned@springfield.com", "Barbecue", "Everyone is welcome this Sunday!", []string{"family", "food"}, false},
	}
)

// 测试数据生成器
func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		Path:     cfg.DatabasePath,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close()

	fmt.Println("开始生成测试数据...")
	if err := seed(db.DB); err != nil {
		log.Fatal("生成测试数据失败:", err)
	}
	fmt.Println("测试数据生成完成！")
	fmt.Printf("用户密码均为: %s\n", seedPassword)
}

// seed 通过服务层写入示例用户、关注关系、文章和评论。已有用户时跳过。
func seed(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&db.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return nil
	}

	users := service.NewUserService(gdb)
	graph := service.NewSocialGraphService(gdb)
	posts := service.NewPostService(gdb, nil)
	engagement := service.NewEngagementService(gdb, posts)

	ids := make(map[string]uint, len(seedUsers))
	for _, u := range seedUsers {
		user, err := users.Register(service.RegisterInput{
			Email:     u.email,
			Password:  seedPassword,
			FirstName: u.first,
			LastName:  u.last,
			Bio:       u.bio,
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", u.email, err)
		}
		ids[u.email] = user.ID
	}

	for _, edge := range seedFollows {
		if _, err := graph.FollowOrUnfollow(service.Actor{UserID: ids[edge[0]]}, ids[edge[1]]); err != nil {
			return fmt.Errorf("follow %s -> %s: %w", edge[0], edge[1], err)
		}
	}

	var firstPost uint
	for _, p := range seedPosts {
		title, content, tags := p.title, p.content, p.tags
		published := !p.scheduled
		input := service.PostInput{Title: &title, Content: &content, Published: &published, Tags: &tags}
		if p.scheduled {
			publishAt := time.Now().Add(24 * time.Hour)
			input.PublishTime = &publishAt
		}
		post, err := posts.Create(service.Actor{UserID: ids[p.author]}, input)
		if err != nil {
			return fmt.Errorf("create post %q: %w", p.title, err)
		}
		if firstPost == 0 {
			firstPost = post.ID
		}
	}

	// Marge follows Homer, so she can see and react to his post.
	marge := service.Actor{UserID: ids["marge@springfield.com"]}
	if _, err := engagement.AddComment(marge, firstPost, "Homie, that's your third box today."); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	if _, _, err := engagement.ToggleLike(marge, firstPost); err != nil {
		return fmt.Errorf("like: %w", err)
	}
	return nil
}
