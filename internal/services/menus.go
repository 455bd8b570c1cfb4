package services

import (
	"fmt"
	"strings"

	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/models"
	"github.com/sarwanshoes/store-backend/internal/session"
)

// Menu and confirmation texts for the shopping conversation. Kept in one
// place so the flow handlers stay readable.

func languageMenu() string {
	return "🌍 *Choose Your Language:*\n\n" +
		"1️⃣ English\n" +
		"2️⃣ Arabic\n\n" +
		"Reply with *1* or *2*"
}

func languageInvalid() string {
	return "❌ Invalid option. Please choose:\n\n" +
		"1️⃣ English\n" +
		"2️⃣ Arabic\n\n" +
		"Reply with *1* or *2*"
}

func categoryMenu(language string) string {
	if language == "AR" {
		return "📦 *اختر فئة الحذاء:*\n\n" +
			"1️⃣ أحذية كاجوال\n" +
			"2️⃣ أحذية رياضية\n" +
			"3️⃣ أحذية رسمية\n\n" +
			"رد بـ *1*, *2*, أو *3*"
	}
	return "📦 *Choose Shoe Category:*\n\n" +
		"1️⃣ Casual Shoes\n" +
		"2️⃣ Sports Shoes\n" +
		"3️⃣ Formal Shoes\n\n" +
		"Reply with *1*, *2*, or *3*"
}

func categoryInvalid() string {
	return "❌ Invalid option. Please choose:\n\n" +
		"1️⃣ Casual Shoes\n" +
		"2️⃣ Sports Shoes\n" +
		"3️⃣ Formal Shoes\n\n" +
		"Reply with *1*, *2*, or *3*"
}

// budgetBandsFor returns the selectable price bands for a category, keyed
// by the digit the customer replies with. The top band of every category
// is open-ended.
func budgetBandsFor(category catalog.Category) map[string]session.PriceBand {
	switch category {
	case catalog.CategorySports:
		return map[string]session.PriceBand{
			"1": {Min: 25, Max: 50, Label: "Basic"},
			"2": {Min: 50, Max: 80, Label: "Professional"},
			"3": {Min: 80, Max: session.PriceNoLimit, Label: "Elite"},
		}
	case catalog.CategoryFormal:
		return map[string]session.PriceBand{
			"1": {Min: 35, Max: 60, Label: "Basic"},
			"2": {Min: 60, Max: 85, Label: "Premium"},
			"3": {Min: 85, Max: session.PriceNoLimit, Label: "Luxury"},
		}
	default: // CASUAL
		return map[string]session.PriceBand{
			"1": {Min: 20, Max: 40, Label: "Basic"},
			"2": {Min: 40, Max: 70, Label: "Premium"},
			"3": {Min: 70, Max: session.PriceNoLimit, Label: "Luxury"},
		}
	}
}

// priceRange formats a price range for display, open-ended ranges as
// "$80+"
func priceRange(min, max float64) string {
	if max == session.PriceNoLimit {
		return fmt.Sprintf("$%.0f+", min)
	}
	return fmt.Sprintf("$%.0f - $%.0f", min, max)
}

func budgetMenu(category catalog.Category, bands map[string]session.PriceBand) string {
	var b strings.Builder
	b.WriteString("💰 *Select Your Budget Range:*\n\n")
	for _, key := range []string{"1", "2", "3"} {
		band := bands[key]
		b.WriteString(fmt.Sprintf("%s️⃣ %s (%s)\n", key, priceRange(band.Min, band.Max), band.Label))
	}
	b.WriteString("\nReply with *1*, *2*, or *3*")
	return b.String()
}

func budgetInvalid() string {
	return "❌ Invalid option. Please select a valid budget range."
}

func sizeMenu() string {
	return "📏 *Select Your Shoe Size:*\n\n" +
		"1️⃣ All Available Sizes\n" +
		"2️⃣ Size 6\n" +
		"3️⃣ Size 7\n" +
		"4️⃣ Size 8\n" +
		"5️⃣ Size 9\n" +
		"6️⃣ Size 10\n\n" +
		"Reply with *1*, *2*, *3*, *4*, *5*, or *6*"
}

func sizeInvalid() string {
	return "❌ Invalid option. Please choose a valid size."
}

func noMatchMessage(s *session.Session) string {
	sizeLabel := "All"
	if s.SelectedSize != 0 {
		sizeLabel = fmt.Sprintf("%d", s.SelectedSize)
	}
	return fmt.Sprintf("😔 *No Shoes Found*\n\n"+
		"No shoes match:\n"+
		"• %s %s\n"+
		"• 💰 %s\n"+
		"• 📏 Size: %s\n\n"+
		"Try different options with *start*",
		s.Category.Emoji(), s.Category.DisplayName(), priceRange(s.PriceMin, s.PriceMax), sizeLabel)
}

// candidateCaption is the short per-product caption sent with each
// candidate image
func candidateCaption(index int, p *catalog.Product) string {
	caption := fmt.Sprintf("%d️⃣ *%s*\n💰 Price: $%.0f\n⭐ Rating: %.1f/5\n📏 Sizes: %s",
		index+1, p.Name, p.Price, p.Rating, joinSizes(p.Sizes))
	if p.Discount > 0 {
		caption += fmt.Sprintf("\n🎯 Discount: %d%% OFF", p.Discount)
	}
	caption += fmt.Sprintf("\n🆔 Code: %s", p.Code())
	return caption
}

func selectionPrompt(shown, total int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎉 *Found %d matching shoes!*\n\n", total))
	b.WriteString("*Select a shoe to view details:*\n")
	b.WriteString("Reply with *1*")
	if shown > 1 {
		b.WriteString(", *2*")
	}
	if shown > 2 {
		b.WriteString(", or *3*")
	}
	return b.String()
}

func selectionInvalid(candidates []catalog.Product) string {
	var b strings.Builder
	b.WriteString("❌ Please select a valid option:\n\n")
	for i := range candidates {
		b.WriteString(fmt.Sprintf("%d️⃣ %s — $%.0f\n", i+1, candidates[i].Name, candidates[i].Price))
	}
	b.WriteString("\nReply with *1*")
	if len(candidates) > 1 {
		b.WriteString(", *2*")
	}
	if len(candidates) > 2 {
		b.WriteString(", or *3*")
	}
	return b.String()
}

// productDetail is the full product view sent as the image caption after
// a candidate is chosen
func productDetail(p *catalog.Product) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👟 *%s*\n\n%s\n\n", p.Name, p.Description))

	b.WriteString(fmt.Sprintf("💰 *Price:* $%.0f", p.Price))
	if p.Discount > 0 {
		b.WriteString(fmt.Sprintf(" (%d%% OFF)", p.Discount))
	}
	b.WriteString("\n")
	if p.OriginalPrice > 0 {
		b.WriteString(fmt.Sprintf("🎯 *Original Price:* $%.2f\n", p.OriginalPrice))
	}
	b.WriteString(fmt.Sprintf("📏 *Available Sizes:* %s\n", joinSizes(p.Sizes)))
	b.WriteString(fmt.Sprintf("🎨 *Colors Available:* %s\n", strings.Join(p.Colors, ", ")))
	b.WriteString(fmt.Sprintf("⭐ *Rating:* %.1f/5\n", p.Rating))
	if p.Rating >= 4.5 {
		b.WriteString("📊 *BESTSELLER*\n")
	} else {
		b.WriteString("📊 *POPULAR CHOICE*\n")
	}

	b.WriteString("\n🔧 *Key Features:*\n")
	for _, f := range p.Features {
		b.WriteString(fmt.Sprintf("• %s\n", f))
	}

	b.WriteString(fmt.Sprintf("\n🧵 *Material:* %s\n", p.Material))
	b.WriteString(fmt.Sprintf("🛡️ *Warranty:* %s\n", p.Warranty))
	b.WriteString(fmt.Sprintf("📦 *Delivery Time:* %d business days\n", p.DeliveryDays))
	if p.InStock {
		b.WriteString("✅ *In Stock - Ready to Ship*\n")
	} else {
		b.WriteString("⏳ *Limited Stock Available*\n")
	}

	b.WriteString(fmt.Sprintf("\n🆔 *Product Code:* %s", p.Code()))
	return b.String()
}

func deliveryMethodPrompt(p *catalog.Product) string {
	return fmt.Sprintf("🛒 *Ready to Order %s?*\n\n"+
		"Total Price: *$%.0f*\n\n"+
		"Choose your delivery method:\n\n"+
		"1️⃣ *Store Pickup*\n"+
		"   📍 Collect from our store\n"+
		"   🕐 Same day pickup available\n\n"+
		"2️⃣ *Home Delivery*\n"+
		"   🚚 Delivered to your address\n"+
		"   📦 %d business days\n\n"+
		"Reply with *1* or *2*",
		p.Name, p.Price, p.DeliveryDays)
}

func deliveryMethodInvalid() string {
	return "❌ Please select an option:\n\n" +
		"1️⃣ Store Pickup\n" +
		"2️⃣ Home Delivery"
}

func pickupDetailsPrompt() string {
	return "🏪 *Store Pickup Selected*\n\n" +
		"📍 *Store Location:*\n" +
		"Sarwan Shoes Store\n" +
		"123 Fashion Street, City Center\n" +
		"🕐 Open: 10AM - 9PM (Mon-Sat)\n\n" +
		"Please provide:\n" +
		"1️⃣ Full Name\n" +
		"2️⃣ Phone Number\n" +
		"3️⃣ Preferred Pickup Date\n\n" +
		"*Format:*\n" +
		"Name: Your Name\n" +
		"Phone: 1234567890\n" +
		"Date: DD/MM/YYYY\n\n" +
		"*Example:*\n" +
		"Name: Ali Khan\n" +
		"Phone: 9876543210\n" +
		"Date: 25/12/2024"
}

func deliveryDetailsPrompt() string {
	return "🚚 *Home Delivery Selected*\n\n" +
		"📦 *Delivery Info:*\n" +
		"• Free delivery over $50\n" +
		"• $5 charge for orders below $50\n" +
		"• 3-5 business days\n\n" +
		"Please provide:\n" +
		"1️⃣ Full Name\n" +
		"2️⃣ Delivery Address\n" +
		"3️⃣ City & PIN Code\n" +
		"4️⃣ Alternate Phone\n\n" +
		"*Format:*\n" +
		"Name: Your Name\n" +
		"Address: Complete Address\n" +
		"City: City Name, PIN\n" +
		"Phone: 1234567890\n\n" +
		"*Example:*\n" +
		"Name: Ali Khan\n" +
		"Address: 123 Main St, Apt 4B\n" +
		"City: Mumbai, 400001\n" +
		"Phone: 9876543210"
}

func missingFieldsMessage(missing []string) string {
	return fmt.Sprintf("❌ *Missing:* %s\n\nPlease send complete details.", strings.Join(missing, ", "))
}

func persistenceFailureMessage() string {
	return "❌ Sorry, we could not save your order right now.\n\n" +
		"Your details are kept — please resend them in a moment to retry."
}

func goodbyeMessage() string {
	return "🛑 *Chat Ended Successfully*\n\n" +
		"Thank you for visiting *Sarwan Shoes Store* 👟\n\n" +
		"👉 To start again, type *start*"
}

func greetingMessage() string {
	return "👋 Welcome to Sarwan Shoes Store! Type *start* to begin."
}

func orderSummary(order *models.Order) string {
	var b strings.Builder
	b.WriteString("✅ *ORDER CONFIRMED!*\n\n")
	b.WriteString(fmt.Sprintf("📋 *Order ID:* %s\n", order.OrderNumber))
	b.WriteString(fmt.Sprintf("📅 *Date:* %s\n", order.CreatedAt.Format("02/01/2006")))
	b.WriteString(fmt.Sprintf("⏰ *Time:* %s\n", order.CreatedAt.Format("3:04:05 PM")))
	b.WriteString(fmt.Sprintf("📱 *Customer:* %s\n\n", order.Phone))

	b.WriteString("👤 *Customer Details:*\n")
	details := order.CustomerDetails()
	for _, key := range []string{"name", "phone", "address", "city", "date"} {
		if value, ok := details[key]; ok {
			b.WriteString(fmt.Sprintf("• %s: %s\n", titleKey(key), value))
		}
	}

	b.WriteString("\n📦 *Order Summary:*\n")
	for i, item := range order.Items() {
		b.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, item.Name))
		b.WriteString(fmt.Sprintf("   Price: $%.0f\n", item.Price))
		b.WriteString(fmt.Sprintf("   Size: %s\n", item.Size))
		b.WriteString(fmt.Sprintf("   Code: %s\n", item.Code))
	}

	b.WriteString("\n💰 *Payment Summary:*\n")
	b.WriteString(fmt.Sprintf("• Subtotal: $%.2f\n", order.Subtotal))
	if order.DeliveryFee > 0 {
		b.WriteString(fmt.Sprintf("• Delivery: $%.2f\n", order.DeliveryFee))
	}
	b.WriteString(fmt.Sprintf("• *Total: $%.2f*\n\n", order.Total))

	if order.PurchaseMethod == session.PurchaseStorePickup {
		b.WriteString("🏪 *Pickup Instructions:*\n")
		b.WriteString("1. Visit store with Order ID\n")
		b.WriteString("2. Bring ID proof\n")
		b.WriteString("3. Pay at store (Cash/Card)\n")
		b.WriteString("4. Collect your order\n\n")
		b.WriteString("📍 *Store:* 123 Fashion Street\n")
		b.WriteString("📞 *Call:* +91-1234567890\n")
	} else {
		b.WriteString("🚚 *Delivery Info:*\n")
		b.WriteString("1. Order will be processed in 24hrs\n")
		b.WriteString("2. Delivery: 3-5 business days\n")
		b.WriteString("3. Cash on Delivery\n")
		b.WriteString("4. Keep exact change ready\n\n")
		b.WriteString("📞 *Delivery Contact:* +91-9876543210\n")
	}

	b.WriteString("\n🙏 *Thank you for shopping with Sarwan Shoes!*\n")
	b.WriteString("Start new order: send *start*")
	return b.String()
}

func titleKey(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}
