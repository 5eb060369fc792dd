package main

import (
	"Videoboxd/internal/config"
	"Videoboxd/internal/data"
	"Videoboxd/internal/model"
	"Videoboxd/internal/source"
	"fmt"
	"log"

	"github.com/go-faker/faker/v4"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoUserCount = 20

var platforms = []model.Platform{
	{Slug: source.PlatformYouTube, Name: "YouTube"},
}

var categories = []model.Category{
	{Slug: "gaming", Name: "Gaming"},
	{Slug: "music", Name: "Music"},
	{Slug: "education", Name: "Education"},
	{Slug: "science-tech", Name: "Science & Technology"},
	{Slug: "comedy", Name: "Comedy"},
	{Slug: "film-animation", Name: "Film & Animation"},
	{Slug: "sports", Name: "Sports"},
	{Slug: "news", Name: "News & Politics"},
}

// 可以重复执行：已经存在的平台、分类、用户都会被跳过
func main() {
	fmt.Println("🚀 开始填充基础数据...")
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	db, err := data.NewDB(cfg.Mysql)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	if err := data.Migrate(db); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	// 平台和分类按slug去重，冲突就什么都不做
	onSlugConflict := clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}
	if err := db.Clauses(onSlugConflict).Create(&platforms).Error; err != nil {
		log.Fatalf("❌ 平台写入失败: %v", err)
	}
	fmt.Printf("✅ 平台: %d 个\n", len(platforms))
	if err := db.Clauses(onSlugConflict).Create(&categories).Error; err != nil {
		log.Fatalf("❌ 分类写入失败: %v", err)
	}
	fmt.Printf("✅ 分类: %d 个\n", len(categories))

	created := seedUsers(db, demoUserCount)
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个演示用户!\n", created)
	fmt.Println("🎉 基础数据填充完毕!")
}

// 所有演示用户的密码都是"password"
func seedUsers(db *gorm.DB, count int) int {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	created := 0
	for i := 0; i < count; i++ {
		user := model.User{
			Username: faker.Username(),
			Email:    faker.Email(),
			FullName: faker.Name(),
			Password: string(hashedPassword),
		}
		// 用户名或邮箱撞了就跳过
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
		if result.Error != nil {
			log.Printf("⚠️ 用户%s写入失败: %v", user.Username, result.Error)
			continue
		}
		created += int(result.RowsAffected)
	}
	return created
}
