// File: internal/infra/stub/guardbot.go
package stub

import (
	"math/rand"
	"regexp"
	"strings"
)

// GuardBot is the educational assistant behind /api/chat. It answers from a
// fixed knowledge base via pattern matching; no external AI service is
// involved, which keeps the stub deterministic enough for development and
// honest about what it is.
type GuardBot struct{}

func NewGuardBot() *GuardBot {
	return &GuardBot{}
}

type kbEntry struct {
	title    string
	content  string
	followUp string
}

type patternRule struct {
	re    *regexp.Regexp
	topic string
}

// Pattern order matters: the first match wins, so greetings and specific
// phrasings come before the broad catch-alls.
var patterns = []patternRule{
	{regexp.MustCompile(`\b(hi|hello|hey|greetings|howdy)\b`), "greeting"},
	{regexp.MustCompile(`\b(good\s*(morning|afternoon|evening))\b`), "greeting"},

	{regexp.MustCompile(`\b(what|define|explain).*(deepfake|deep\s*fake)\b`), "what_is_deepfake"},
	{regexp.MustCompile(`\bdeepfake.*(meaning|definition|is)\b`), "what_is_deepfake"},

	{regexp.MustCompile(`\b(how|way).*(create|make|made|generate|produce).*(deepfake|fake)\b`), "how_deepfakes_made"},
	{regexp.MustCompile(`\b(who|how).*(create|make).*deepfake\b`), "how_deepfakes_made"},
	{regexp.MustCompile(`\btechnology.*(behind|used|create)\b`), "how_deepfakes_made"},

	{regexp.MustCompile(`\b(how|way).*(detect|spot|identify|recognize|tell|know).*(deepfake|fake)\b`), "detection_techniques"},
	{regexp.MustCompile(`\b(sign|clue|indicator|tell).*(deepfake|fake)\b`), "detection_techniques"},
	{regexp.MustCompile(`\bdetect\b`), "detection_techniques"},
	{regexp.MustCompile(`\b(spot|identify|recognize).*fake\b`), "detection_techniques"},

	{regexp.MustCompile(`\b(risk|danger|threat|harm|problem).*(deepfake|fake)?\b`), "risks_dangers"},
	{regexp.MustCompile(`\bwhy.*(dangerous|bad|harmful|concern)\b`), "risks_dangers"},
	{regexp.MustCompile(`\bwhat.*(impact|effect|consequence)\b`), "risks_dangers"},

	{regexp.MustCompile(`\b(protect|safe|prevent|avoid|secure)\b`), "protection_tips"},
	{regexp.MustCompile(`\b(what|how).*(do|should).*if.*(victim|targeted)\b`), "protection_tips"},
	{regexp.MustCompile(`\bstay\s*safe\b`), "protection_tips"},

	{regexp.MustCompile(`\b(law|legal|regulation|illegal|crime|police|report)\b`), "laws_regulations"},
	{regexp.MustCompile(`\bsue\b`), "laws_regulations"},

	{regexp.MustCompile(`\b(how|what).*(this|tool|app|system|work|detect)\b`), "our_technology"},
	{regexp.MustCompile(`\bdeepguard\b`), "our_technology"},
	{regexp.MustCompile(`\b(your|this).*(technology|algorithm|method)\b`), "our_technology"},

	{regexp.MustCompile(`\b(future|next|coming|evolve|trend)\b`), "future_of_deepfakes"},
	{regexp.MustCompile(`\bwill.*(get|become).*(better|worse)\b`), "future_of_deepfakes"},

	{regexp.MustCompile(`\b(quiz|test|question|learn)\b`), "quiz"},
	{regexp.MustCompile(`\btest.*knowledge\b`), "quiz"},

	{regexp.MustCompile(`\b(thank|thanks|thx|appreciate)\b`), "thanks"},

	{regexp.MustCompile(`\b(help|assist|support|guide)\b`), "help"},
	{regexp.MustCompile(`\bwhat can you\b`), "help"},

	{regexp.MustCompile(`\b(bye|goodbye|exit|quit|leave)\b`), "goodbye"},
}

var knowledgeBase = map[string]kbEntry{
	"what_is_deepfake": {
		title: "What is a Deepfake?",
		content: "A **deepfake** is synthetic media created using artificial intelligence, where a person's likeness (face, voice, or both) is replaced or manipulated to make it appear they said or did something they never actually did.\n\n" +
			"**Key points:**\n" +
			"• The term combines \"deep learning\" + \"fake\"\n" +
			"• Uses AI techniques like GANs (Generative Adversarial Networks)\n" +
			"• Can create realistic but completely fabricated videos or audio\n" +
			"• First emerged around 2017, now widespread due to accessible tools\n\n" +
			"**Common types:**\n" +
			"1. **Face swaps** - Replacing one person's face with another\n" +
			"2. **Lip sync** - Making someone appear to say different words\n" +
			"3. **Voice cloning** - Synthesizing someone's voice\n" +
			"4. **Full body puppetry** - Controlling someone's entire appearance",
		followUp: "Would you like to know how to detect deepfakes or learn about the risks they pose?",
	},
	"how_deepfakes_made": {
		title: "How Deepfakes Are Created",
		content: "Deepfakes are created using sophisticated AI/ML techniques:\n\n" +
			"**1. Data Collection**\n" +
			"• Gather many images/videos of the target person\n" +
			"• The more training data, the more realistic the result\n\n" +
			"**2. AI Training**\n" +
			"• **Autoencoders**: Learn to compress and reconstruct faces\n" +
			"• **GANs**: Two networks compete - one creates, one detects\n" +
			"• Training can take hours to days depending on quality\n\n" +
			"**3. Face Mapping**\n" +
			"• AI learns facial landmarks, expressions, and movements\n" +
			"• Maps source face movements onto target face\n\n" +
			"**4. Rendering**\n" +
			"• Blending, color matching, and smoothing\n" +
			"• Post-processing to hide artifacts\n\n" +
			"**Tools commonly used:**\n" +
			"• DeepFaceLab, FaceSwap (open source)\n" +
			"• Commercial apps (often for \"entertainment\")\n" +
			"• Voice cloning services",
		followUp: "Understanding how they're made helps you spot them. Want tips on detection?",
	},
	"detection_techniques": {
		title: "How to Detect Deepfakes",
		content: "Here are proven techniques to spot deepfakes:\n\n" +
			"**👁️ Visual Clues:**\n" +
			"• **Blinking** - Deepfakes often have unnatural blink patterns\n" +
			"• **Skin texture** - May look too smooth or plastic\n" +
			"• **Hair edges** - Blurry or inconsistent around hairline\n" +
			"• **Lighting** - Shadows and lighting may not match\n" +
			"• **Teeth** - Often blurry or misshapen\n" +
			"• **Jewelry/glasses** - Reflections may be wrong\n\n" +
			"**👂 Audio Clues:**\n" +
			"• **Robotic quality** - Slight mechanical sound\n" +
			"• **Breathing** - Missing natural breath sounds\n" +
			"• **Background noise** - Inconsistent ambient sounds\n" +
			"• **Lip sync** - Slight delays between lips and audio\n\n" +
			"**🔬 Technical Methods:**\n" +
			"• **Metadata analysis** - Check file origins\n" +
			"• **Reverse image search** - Find original content\n" +
			"• **AI detection tools** - Like DeepGuard!\n" +
			"• **Frequency analysis** - Compression artifacts\n\n" +
			"**🧠 Critical Thinking:**\n" +
			"• Does this seem too shocking to be true?\n" +
			"• What's the source? Is it verified?\n" +
			"• Who benefits from this being believed?",
		followUp: "Our tool uses CNN, spectral analysis, and face landmarks to detect these automatically!",
	},
	"risks_dangers": {
		title: "Risks and Dangers of Deepfakes",
		content: "Deepfakes pose serious threats across multiple domains:\n\n" +
			"**🏦 Financial Fraud**\n" +
			"• CEO fraud - Fake video calls authorizing transfers\n" +
			"• Voice cloning for phone scams\n" +
			"• Identity theft for loan applications\n" +
			"• Real cases: $243,000 stolen via AI voice clone (2019)\n\n" +
			"**🗳️ Political Manipulation**\n" +
			"• Fake statements from politicians\n" +
			"• Election interference\n" +
			"• Diplomatic incidents\n" +
			"• Public trust erosion\n\n" +
			"**👤 Personal Attacks**\n" +
			"• Non-consensual intimate imagery (most common abuse)\n" +
			"• Reputation destruction\n" +
			"• Blackmail and extortion\n" +
			"• Harassment campaigns\n\n" +
			"**⚖️ Legal Implications**\n" +
			"• Evidence tampering in courts\n" +
			"• False alibis or accusations\n" +
			"• Defamation at scale\n\n" +
			"**🌐 Societal Impact**\n" +
			"• \"Liar's dividend\" - Real videos dismissed as fake\n" +
			"• Trust crisis in media\n" +
			"• Increased polarization",
		followUp: "Knowing these risks helps you stay vigilant. Want to learn how to protect yourself?",
	},
	"protection_tips": {
		title: "How to Protect Yourself",
		content: "Here's your comprehensive protection guide:\n\n" +
			"**🛡️ Prevention**\n" +
			"• Limit public photos/videos of yourself\n" +
			"• Use privacy settings on social media\n" +
			"• Be cautious about video calls with strangers\n" +
			"• Watermark your personal content\n\n" +
			"**🔍 Verification**\n" +
			"• Always check multiple sources for news\n" +
			"• Use reverse image/video search\n" +
			"• Look for original sources, not shares\n" +
			"• Be skeptical of emotional/shocking content\n" +
			"• Use detection tools like DeepGuard\n\n" +
			"**🚨 If You're a Victim**\n" +
			"1. Document everything (screenshots, URLs)\n" +
			"2. Report to the platform immediately\n" +
			"3. Contact law enforcement\n" +
			"4. Seek legal advice\n" +
			"5. Reach out to support organizations\n\n" +
			"**📢 Spread Awareness**\n" +
			"• Educate family and friends\n" +
			"• Share detection techniques\n" +
			"• Support media literacy initiatives\n\n" +
			"**🔐 Digital Hygiene**\n" +
			"• Use strong, unique passwords\n" +
			"• Enable two-factor authentication\n" +
			"• Be careful what you share online\n" +
			"• Regularly review your digital footprint",
		followUp: "Prevention is the best protection. Any specific concerns you'd like to discuss?",
	},
	"laws_regulations": {
		title: "Laws and Regulations",
		content: "Legal landscape for deepfakes is evolving rapidly:\n\n" +
			"**🇺🇸 United States**\n" +
			"• DEEPFAKES Accountability Act (proposed)\n" +
			"• Some states have specific laws (CA, TX, VA)\n" +
			"• Section 230 debates ongoing\n" +
			"• FTC regulations on deceptive practices\n\n" +
			"**🇪🇺 European Union**\n" +
			"• AI Act - Requires disclosure of synthetic media\n" +
			"• GDPR - Right to image applies\n" +
			"• Digital Services Act - Platform responsibility\n\n" +
			"**🇬🇧 United Kingdom**\n" +
			"• Online Safety Bill includes deepfake provisions\n" +
			"• Intimate image abuse laws\n" +
			"• Defamation and harassment laws apply\n\n" +
			"**🌏 Asia**\n" +
			"• China - Deep synthesis regulations (2023)\n" +
			"• South Korea - Specific deepfake laws\n" +
			"• India - IT Act amendments\n\n" +
			"**⚖️ General Legal Options**\n" +
			"• Defamation lawsuits\n" +
			"• Copyright infringement\n" +
			"• Right to publicity claims\n" +
			"• Criminal harassment charges\n\n" +
			"*Note: Laws vary significantly by jurisdiction*",
		followUp: "Legal protections are improving. Would you like to know about reporting procedures?",
	},
	"our_technology": {
		title: "How DeepGuard Works",
		content: "DeepGuard uses three powerful detection methods:\n\n" +
			"**🎬 Video Analysis (CNN)**\n" +
			"Our Convolutional Neural Network examines:\n" +
			"• Compression artifacts around face regions\n" +
			"• Color consistency at blending boundaries\n" +
			"• Noise patterns that differ from original footage\n" +
			"• Temporal consistency across frames\n\n" +
			"**🎵 Audio Analysis (Spectral)**\n" +
			"We analyze voice characteristics:\n" +
			"• MFCC (Mel-frequency cepstral coefficients)\n" +
			"• Voice naturalness scoring (jitter, shimmer)\n" +
			"• Spectral patterns unique to synthetic speech\n" +
			"• Temporal rhythm and breathing patterns\n\n" +
			"**👤 Face Landmarks (468 Points)**\n" +
			"Using face mesh tracking:\n" +
			"• Blink pattern analysis (deepfakes often blink wrong)\n" +
			"• Lip-sync verification\n" +
			"• Micro-expression tracking\n" +
			"• Facial symmetry analysis\n\n" +
			"**📊 Combined Scoring**\n" +
			"• All three methods contribute to final score\n" +
			"• Confidence levels based on data quality\n" +
			"• Clear indicators explain what was detected",
		followUp: "Upload a file to try it out! Any questions about our methodology?",
	},
	"future_of_deepfakes": {
		title: "The Future of Deepfakes",
		content: "What to expect in the coming years:\n\n" +
			"**📈 Technology Evolution**\n" +
			"• Real-time deepfakes becoming more accessible\n" +
			"• Higher quality with less training data\n" +
			"• Voice + video combined seamlessly\n" +
			"• AR/VR integration\n\n" +
			"**🛡️ Defense Improvements**\n" +
			"• Better AI detection methods\n" +
			"• Blockchain-based content authentication\n" +
			"• Digital watermarking standards\n" +
			"• Platform-level detection\n\n" +
			"**🏛️ Policy Developments**\n" +
			"• Stricter regulations expected\n" +
			"• Platform accountability laws\n" +
			"• International cooperation\n" +
			"• Digital identity frameworks\n\n" +
			"**🎓 Education & Awareness**\n" +
			"• Media literacy in schools\n" +
			"• Public awareness campaigns\n" +
			"• Industry standards forming\n\n" +
			"**💡 Positive Applications**\n" +
			"• Film and entertainment efficiency\n" +
			"• Accessibility (dubbing, translation)\n" +
			"• Historical preservation\n" +
			"• Art and creativity\n\n" +
			"The arms race between creation and detection continues!",
		followUp: "Staying informed is crucial. What else would you like to know?",
	},
	"quiz": {
		title: "Test Your Knowledge",
		content: "Let's test what you've learned about deepfakes!\n\n" +
			"**Question 1:** What technology primarily powers deepfakes?\n" +
			"A) Photoshop\n" +
			"B) GANs (Generative Adversarial Networks)\n" +
			"C) Simple video editing\n" +
			"D) Motion capture\n\n" +
			"**Question 2:** Which is a common sign of a deepfake video?\n" +
			"A) High resolution\n" +
			"B) Unnatural blinking patterns\n" +
			"C) Good audio quality\n" +
			"D) Smooth playback\n\n" +
			"**Question 3:** What should you do if you suspect a deepfake?\n" +
			"A) Share it immediately\n" +
			"B) Ignore it\n" +
			"C) Verify with multiple sources\n" +
			"D) Assume it's real\n\n" +
			"*(Answers: 1-B, 2-B, 3-C)*",
		followUp: "How did you do? Want me to explain any of the answers?",
	},
}

var greetings = []string{
	"Hello! 👋 I'm **GuardBot**, your AI assistant for deepfake education. I'm here to help you understand deepfakes and stay protected in the digital world. What would you like to know?",
	"Hi there! 🛡️ Welcome to DeepGuard's educational assistant. I can help you learn about deepfakes, detection techniques, and how to protect yourself. What's on your mind?",
	"Hey! 👋 I'm here to help you navigate the world of deepfakes. Whether you want to understand what they are, how to spot them, or how to stay safe - just ask!",
}

var thanksResponses = []string{
	"You're welcome! 😊 Remember, staying informed is your best defense against deepfakes. Anything else I can help with?",
	"Happy to help! 🛡️ If you have more questions or want to test a file for deepfakes, I'm here for you!",
	"Anytime! Knowledge is power when it comes to digital safety. Feel free to ask more questions!",
}

var goodbyes = []string{
	"Goodbye! 👋 Stay safe online and remember - if something seems too shocking to be true, verify it first! Take care!",
	"See you later! 🛡️ Remember to stay vigilant and use DeepGuard to check suspicious media. Stay protected!",
	"Bye for now! 💪 You're now more informed about deepfakes. Share this knowledge with others to help them stay safe too!",
}

var fallbacks = []string{
	"I'm not quite sure about that specific topic, but I'd love to help you learn about deepfakes! Try asking me:\n\n• What is a deepfake?\n• How can I spot fake videos?\n• How do I protect myself?\n\nOr type **'help'** to see all topics I can discuss!",
	"Hmm, I'm specialized in deepfake education. Let me suggest some topics:\n\n🔹 Detection techniques\n🔹 Protection tips\n🔹 Risks and dangers\n🔹 Our technology\n\nWhat interests you most?",
	"I want to make sure I give you accurate information! While I focus on deepfakes, I can cover:\n\n• How deepfakes work\n• How to detect them\n• How to stay safe\n• Legal aspects\n\nWhich would you like to explore?",
}

const helpMessage = "I can help you with many topics related to deepfakes! Here's what you can ask me about:\n\n" +
	"🔹 **\"What is a deepfake?\"** - Understanding the basics\n" +
	"🔹 **\"How are deepfakes made?\"** - The technology behind them\n" +
	"🔹 **\"How to detect deepfakes?\"** - Spotting fakes\n" +
	"🔹 **\"What are the risks?\"** - Understanding dangers\n" +
	"🔹 **\"How to protect myself?\"** - Safety tips\n" +
	"🔹 **\"What laws exist?\"** - Legal protections\n" +
	"🔹 **\"How does DeepGuard work?\"** - Our technology\n" +
	"🔹 **\"What's the future?\"** - Trends and predictions\n" +
	"🔹 **\"Give me a quiz\"** - Test your knowledge\n\n" +
	"Just type your question naturally, and I'll do my best to help! 💡"

var topicSuggestions = map[string][]string{
	"what_is_deepfake":     {"How are they made?", "What are the risks?", "How to detect them?"},
	"how_deepfakes_made":   {"How to detect them?", "How does DeepGuard work?", "What are the dangers?"},
	"detection_techniques": {"Try DeepGuard detection", "How to protect myself?", "What are the risks?"},
	"risks_dangers":        {"How to protect myself?", "What laws exist?", "How to detect deepfakes?"},
	"protection_tips":      {"Test your knowledge", "What are the laws?", "How does DeepGuard work?"},
	"laws_regulations":     {"How to report deepfakes?", "Protection tips", "What's the future?"},
	"our_technology":       {"Try uploading a file", "Detection techniques", "What are deepfakes?"},
	"future_of_deepfakes":  {"How to stay protected?", "Current detection methods", "Take the quiz"},
	"quiz":                 {"Learn more basics", "Protection tips", "How DeepGuard works"},
}

var defaultSuggestions = []string{"What is a deepfake?", "How to detect them?", "Protection tips"}

var quickTips = []string{
	"🔍 Always verify shocking content before sharing",
	"👁️ Check for unnatural blinking in videos",
	"🔊 Listen for robotic or mechanical voice quality",
	"🌐 Use reverse image search for suspicious photos",
	"🛡️ Limit personal photos shared publicly online",
}

// BotReply bundles one assistant answer with its routing metadata.
type BotReply struct {
	Text        string
	Topic       string
	Suggestions []string
}

// Greeting picks one of the welcome variants.
func (b *GuardBot) Greeting() string {
	return greetings[rand.Intn(len(greetings))]
}

// QuickTips returns the short safety reminders shown next to the greeting.
func (b *GuardBot) QuickTips() []string {
	return append([]string(nil), quickTips...)
}

// Respond matches the message against the pattern table and assembles the
// answer. Knowledge-base answers use the fixed
// "**title**\n\ncontent\n\n💡 *follow-up*" layout the front-ends render.
func (b *GuardBot) Respond(message string) BotReply {
	lower := strings.ToLower(strings.TrimSpace(message))

	topic := ""
	for _, p := range patterns {
		if p.re.MatchString(lower) {
			topic = p.topic
			break
		}
	}

	var text, title string
	switch topic {
	case "greeting":
		text, title = b.Greeting(), "Welcome"
	case "thanks":
		text, title = thanksResponses[rand.Intn(len(thanksResponses))], "You're Welcome"
	case "goodbye":
		text, title = goodbyes[rand.Intn(len(goodbyes))], "Goodbye"
	case "help":
		text, title = helpMessage, "How I Can Help"
	default:
		if entry, ok := knowledgeBase[topic]; ok {
			text = "**" + entry.title + "**\n\n" + entry.content + "\n\n💡 *" + entry.followUp + "*"
			title = entry.title
		} else {
			text, title = fallbacks[rand.Intn(len(fallbacks))], "Let Me Help"
		}
	}

	return BotReply{
		Text:        text,
		Topic:       title,
		Suggestions: suggestionsFor(topic),
	}
}

func suggestionsFor(topic string) []string {
	if s, ok := topicSuggestions[topic]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), defaultSuggestions...)
}
